package websocket

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
	"github.com/dennisdiepolder/calldash/internal/config"
	"github.com/dennisdiepolder/calldash/internal/retell"
)

// SnapshotLoader produces a fresh dashboard snapshot
type SnapshotLoader interface {
	Load(ctx context.Context) (callmetrics.Snapshot, error)
}

// Handler handles WebSocket upgrade requests
type Handler struct {
	hub      *Hub
	loader   SnapshotLoader
	config   *config.Config
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, loader SnapshotLoader, cfg *config.Config, logger zerolog.Logger) *Handler {
	h := &Handler{
		hub:    hub,
		loader: loader,
		config: cfg,
		logger: logger.With().Str("component", "ws_handler").Logger(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts same-origin requests and the configured CORS origins
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(h.config.AllowedOrigins, "*") || slices.Contains(h.config.AllowedOrigins, origin)
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := NewClient(r.Context(), h.hub, conn, h.config, h.logger, h.handleRefresh)

	// queued before registration so it is the first frame the client sees
	client.send <- h.initialMessage(r.Context())

	if !h.hub.Register(client) {
		h.logger.Warn().Msg("hub stopped, rejecting connection")
		conn.Close()
		return
	}
	client.Start()
}

func (h *Handler) initialMessage(ctx context.Context) []byte {
	snapshot, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("initial snapshot failed")
		_, msg := retell.Describe(err)
		return ErrorMessage(msg)
	}
	data, err := SnapshotMessage(snapshot)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode snapshot")
		return ErrorMessage("Internal error")
	}
	return data
}

func (h *Handler) handleRefresh(ctx context.Context, c *Client) {
	if _, err := h.Refresh(ctx); err != nil {
		_, msg := retell.Describe(err)
		h.hub.Send(c, ErrorMessage(msg))
	}
}

// Refresh loads a new snapshot and broadcasts it to every connected client
func (h *Handler) Refresh(ctx context.Context) (callmetrics.Snapshot, error) {
	snapshot, err := h.loader.Load(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("refresh failed")
		return callmetrics.Snapshot{}, err
	}

	data, err := SnapshotMessage(snapshot)
	if err != nil {
		return callmetrics.Snapshot{}, err
	}
	h.hub.Broadcast(data)
	h.logger.Debug().Int("clients", h.hub.ClientCount()).Msg("snapshot broadcast")
	return snapshot, nil
}
