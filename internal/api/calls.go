package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// CallClient is the Retell client as seen by the proxy endpoints
type CallClient interface {
	ListCalls(ctx context.Context, filters types.ListFilters) (*types.CallPage, error)
	GetCall(ctx context.Context, callID string) (json.RawMessage, error)
}

// CallsHandler proxies list and get requests to the telephony API
type CallsHandler struct {
	client   CallClient
	reporter ErrorReporter
	logger   zerolog.Logger
}

// NewCallsHandler creates a new CallsHandler. reporter may be nil.
func NewCallsHandler(client CallClient, reporter ErrorReporter, logger zerolog.Logger) *CallsHandler {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &CallsHandler{
		client:   client,
		reporter: reporter,
		logger:   logger.With().Str("component", "calls_proxy").Logger(),
	}
}

// HandleList handles GET /api/calls
func (h *CallsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseListFilters(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.client.ListCalls(r.Context(), filters)
	if err != nil {
		failUpstream(w, r, err, h.reporter, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// HandleGet handles GET /api/calls/{callId}. The upstream body is relayed as-is.
func (h *CallsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callId")

	body, err := h.client.GetCall(r.Context(), callID)
	if err != nil {
		failUpstream(w, r, err, h.reporter, h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
