package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/calllog"
	"github.com/dennisdiepolder/calldash/internal/export"
	"github.com/dennisdiepolder/calldash/internal/types"
)

// CallSource returns the decoded calls behind the call-logs page
type CallSource interface {
	Calls(ctx context.Context) ([]types.Call, error)
}

// CallGetter fetches a single raw call
type CallGetter interface {
	GetCall(ctx context.Context, callID string) (json.RawMessage, error)
}

// CallLogsResponse is the body of GET /api/call-logs
type CallLogsResponse struct {
	Entries []calllog.Entry `json:"entries"`
	Count   int             `json:"count"`
	Search  string          `json:"search,omitempty"`
}

// CallLogHandler serves the call-logs and call-detail pages
type CallLogHandler struct {
	source   CallSource
	getter   CallGetter
	opts     calllog.Options
	now      func() time.Time
	reporter ErrorReporter
	logger   zerolog.Logger
}

// NewCallLogHandler creates a new CallLogHandler. reporter may be nil.
func NewCallLogHandler(source CallSource, getter CallGetter, opts calllog.Options, reporter ErrorReporter, logger zerolog.Logger) *CallLogHandler {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &CallLogHandler{
		source:   source,
		getter:   getter,
		opts:     opts,
		now:      time.Now,
		reporter: reporter,
		logger:   logger.With().Str("component", "call_logs").Logger(),
	}
}

func (h *CallLogHandler) entries(r *http.Request) ([]calllog.Entry, string, error) {
	calls, err := h.source.Calls(r.Context())
	if err != nil {
		return nil, "", err
	}
	search := r.URL.Query().Get("search")
	return calllog.Filter(calllog.Build(calls, h.opts), search), search, nil
}

// HandleList handles GET /api/call-logs
func (h *CallLogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, search, err := h.entries(r)
	if err != nil {
		failUpstream(w, r, err, h.reporter, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, CallLogsResponse{Entries: entries, Count: len(entries), Search: search})
}

// HandleExport handles GET /api/call-logs/export
func (h *CallLogHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	entries, _, err := h.entries(r)
	if err != nil {
		failUpstream(w, r, err, h.reporter, h.logger)
		return
	}

	// buffered so a write failure can still become a JSON error
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, entries); err != nil {
		h.logger.Error().Err(err).Msg("failed to build workbook")
		h.reporter.CaptureError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	filename := fmt.Sprintf("call-logs-%s.xlsx", h.now().In(h.location()).Format("2006-01-02"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)

	h.logger.Info().Int("rows", len(entries)).Msg("call log exported")
}

// HandleDetail handles GET /api/call-logs/{callId}
func (h *CallLogHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	raw, err := h.getter.GetCall(r.Context(), chi.URLParam(r, "callId"))
	if err != nil {
		failUpstream(w, r, err, h.reporter, h.logger)
		return
	}

	var call types.Call
	if err := json.Unmarshal(raw, &call); err != nil {
		h.logger.Error().Err(err).Msg("failed to decode call")
		h.reporter.CaptureError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, calllog.BuildDetail(call, h.opts))
}

func (h *CallLogHandler) location() *time.Location {
	if h.opts.Location == nil {
		return time.Local
	}
	return h.opts.Location
}
