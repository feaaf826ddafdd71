package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/retell"
	"github.com/dennisdiepolder/calldash/internal/types"
)

// ErrorReporter forwards unexpected failures to error tracking
type ErrorReporter interface {
	CaptureError(ctx context.Context, err error)
}

type nopReporter struct{}

func (nopReporter) CaptureError(context.Context, error) {}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

// MethodNotAllowed answers unsupported methods with a JSON error
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// NotFound answers unknown routes with a JSON error
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

// failUpstream writes the response for an error returned by the Retell client.
// Upstream rejections keep their status; everything else is a 500.
func failUpstream(w http.ResponseWriter, r *http.Request, err error, reporter ErrorReporter, logger zerolog.Logger) {
	status, msg := retell.Describe(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("upstream request failed")
		if status == http.StatusInternalServerError {
			reporter.CaptureError(r.Context(), err)
		}
	} else {
		logger.Warn().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("upstream rejected request")
	}
	writeError(w, status, msg)
}
