package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dennisdiepolder/calldash/internal/config"
	"github.com/dennisdiepolder/calldash/internal/errtrack"
	"github.com/dennisdiepolder/calldash/internal/ticker"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// JSON logs outside local development
	if !cfg.IsLocal() {
		zerolog.TimeFieldFormat = time.RFC3339
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Str("environment", cfg.Environment).
		Str("retell_base_url", cfg.RetellBaseURL).
		Bool("retell_api_key_set", cfg.RetellAPIKey != "").
		Str("timezone", cfg.Location.String()).
		Bool("require_auth_flag", cfg.RequireAuthFlag).
		Dur("push_interval", cfg.PushInterval).
		Msg("starting calldash server")

	// Error tracking
	tracker, err := errtrack.Init(cfg.SentryDSN, cfg.SentryEnvironment, version)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Sentry, continuing without it")
		tracker, _ = errtrack.Init("", "", "")
	}
	defer tracker.Flush(2 * time.Second)
	if tracker.Enabled() {
		log.Info().Str("environment", cfg.SentryEnvironment).Msg("sentry initialized")
	}

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newServices(cfg, tracker, log.Logger)
	go svc.hub.Run(ctx)

	if cfg.PushInterval > 0 {
		go ticker.NewTicker(svc.ws, svc.hub, cfg.PushInterval, log.Logger).Start(ctx)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, svc, log.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // list-calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the websocket hub
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
