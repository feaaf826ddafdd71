package api

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
)

// SnapshotLoader builds a dashboard snapshot from fresh upstream data
type SnapshotLoader interface {
	Load(ctx context.Context) (callmetrics.Snapshot, error)
}

// Refresher loads a snapshot and pushes it to live dashboard clients
type Refresher interface {
	Refresh(ctx context.Context) (callmetrics.Snapshot, error)
}

// DashboardHandler serves the aggregated dashboard
type DashboardHandler struct {
	loader    SnapshotLoader
	refresher Refresher
	reporter  ErrorReporter
	logger    zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler. reporter may be nil.
func NewDashboardHandler(loader SnapshotLoader, refresher Refresher, reporter ErrorReporter, logger zerolog.Logger) *DashboardHandler {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &DashboardHandler{
		loader:    loader,
		refresher: refresher,
		reporter:  reporter,
		logger:    logger.With().Str("component", "dashboard_api").Logger(),
	}
}

// HandleGet handles GET /api/dashboard
func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.loader.Load(r.Context())
	if err != nil {
		failUpstream(w, r, err, h.reporter, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandleRefresh handles POST /api/dashboard/refresh
func (h *DashboardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.refresher.Refresh(r.Context())
	if err != nil {
		failUpstream(w, r, err, h.reporter, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
