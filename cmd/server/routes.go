package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/api"
	"github.com/dennisdiepolder/calldash/internal/auth"
	"github.com/dennisdiepolder/calldash/internal/calllog"
	"github.com/dennisdiepolder/calldash/internal/config"
	"github.com/dennisdiepolder/calldash/internal/dashboard"
	"github.com/dennisdiepolder/calldash/internal/errtrack"
	"github.com/dennisdiepolder/calldash/internal/metrics"
	"github.com/dennisdiepolder/calldash/internal/retell"
	"github.com/dennisdiepolder/calldash/internal/websocket"
	"github.com/dennisdiepolder/calldash/pkg/middleware"
)

// services are the long-lived components behind the router
type services struct {
	client    *retell.Client
	dashboard *dashboard.Service
	hub       *websocket.Hub
	ws        *websocket.Handler
	metrics   *metrics.Metrics
	tracker   *errtrack.Tracker
}

func newServices(cfg *config.Config, tracker *errtrack.Tracker, logger zerolog.Logger) *services {
	m := metrics.New()

	clientOpts := []retell.Option{retell.WithObserver(m)}
	if cfg.UpstreamTimeout > 0 {
		clientOpts = append(clientOpts, retell.WithTimeout(cfg.UpstreamTimeout))
	}
	client := retell.NewClient(cfg.RetellBaseURL, cfg.RetellAPIKey, logger, clientOpts...)

	svc := dashboard.NewService(client, cfg.Location, logger, dashboard.WithRecorder(m))
	hub := websocket.NewHub(logger, m)

	return &services{
		client:    client,
		dashboard: svc,
		hub:       hub,
		ws:        websocket.NewHandler(hub, svc, cfg, logger),
		metrics:   m,
		tracker:   tracker,
	}
}

func newRouter(cfg *config.Config, svc *services, logger zerolog.Logger) http.Handler {
	callsHandler := api.NewCallsHandler(svc.client, svc.tracker, logger)
	dashboardHandler := api.NewDashboardHandler(svc.dashboard, svc.ws, svc.tracker, logger)
	callLogHandler := api.NewCallLogHandler(svc.dashboard, svc.client, calllog.Options{
		Location: cfg.Location,
		Region:   cfg.PhoneRegion,
	}, svc.tracker, logger)
	diagnosticsHandler := api.NewDiagnosticsHandler(cfg.Environment, cfg.RetellAPIKey, logger)

	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(svc.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(svc.tracker.Middleware())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	// Register public routes (no auth required)
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", svc.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.RequireAuthFlag, logger))

		r.Get("/ws", svc.ws.ServeHTTP)

		r.Route("/api", func(r chi.Router) {
			r.Method(http.MethodGet, "/test", diagnosticsHandler)

			r.Get("/calls", callsHandler.HandleList)
			r.Get("/calls/{callId}", callsHandler.HandleGet)

			r.Get("/dashboard", dashboardHandler.HandleGet)
			r.Post("/dashboard/refresh", dashboardHandler.HandleRefresh)

			r.Get("/call-logs", callLogHandler.HandleList)
			r.Get("/call-logs/export", callLogHandler.HandleExport)
			r.Get("/call-logs/{callId}", callLogHandler.HandleDetail)
		})
	})

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"calldash"}`)
}
