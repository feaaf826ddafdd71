package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DiagnosticsResponse is the body of GET /api/test
type DiagnosticsResponse struct {
	Message   string            `json:"message"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Timestamp string            `json:"timestamp"`
	Env       map[string]string `json:"env"`
}

// DiagnosticsHandler confirms that API routing works without calling upstream
type DiagnosticsHandler struct {
	environment string
	apiKeyIsSet bool
	now         func() time.Time
	logger      zerolog.Logger
}

// NewDiagnosticsHandler creates a new DiagnosticsHandler. The API key itself
// is never stored, only whether it is present.
func NewDiagnosticsHandler(environment, apiKey string, logger zerolog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		environment: environment,
		apiKeyIsSet: apiKey != "",
		now:         time.Now,
		logger:      logger.With().Str("component", "diagnostics").Logger(),
	}
}

// ServeHTTP handles GET /api/test
func (h *DiagnosticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info().Str("method", r.Method).Str("url", r.URL.String()).Msg("test route called")

	keyStatus := "Not set"
	if h.apiKeyIsSet {
		keyStatus = "Set"
	}

	writeJSON(w, http.StatusOK, DiagnosticsResponse{
		Message:   "API routes are working!",
		Method:    r.Method,
		URL:       r.URL.RequestURI(),
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Env: map[string]string{
			"ENVIRONMENT":    h.environment,
			"RETELL_API_KEY": keyStatus,
		},
	})
}
