package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// DefaultBaseURL is the Retell v2 API root
const DefaultBaseURL = "https://api.retellai.com/v2"

const (
	OpListCalls = "list_calls"
	OpGetCall   = "get_call"
)

// Outcome labels reported to an Observer
const (
	OutcomeSuccess   = "success"
	OutcomeUpstream  = "upstream_error"
	OutcomeTransport = "transport_error"
)

// Observer is notified once per upstream request
type Observer interface {
	ObserveUpstream(operation, outcome string, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveUpstream(string, string, time.Duration) {}

// Client talks to the Retell API. It issues exactly one request per call:
// no retries, no internal pagination, no caching.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	observer   Observer
	logger     zerolog.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each upstream request. Zero leaves requests unbounded.
// It applies to a copy of the http.Client, never to a shared one.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithObserver reports request outcomes, e.g. to Prometheus
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a new Retell client. An empty apiKey is sent as-is; the
// upstream rejects it, there is no local pre-flight check.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		observer:   nopObserver{},
		logger:     logger.With().Str("component", "retell_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// ListCalls forwards the present filters to POST /list-calls and normalizes
// the response into a CallPage
func (c *Client) ListCalls(ctx context.Context, filters types.ListFilters) (*types.CallPage, error) {
	body, err := c.do(ctx, OpListCalls, http.MethodPost, "/list-calls", listRequestBody(filters))
	if err != nil {
		return nil, err
	}

	page := Normalize(body)
	c.logger.Debug().
		Int("calls", len(page.Calls)).
		Bool("has_next_cursor", page.NextCursor != nil).
		Msg("listed calls")
	return &page, nil
}

// GetCall fetches one call and returns the upstream JSON unchanged
func (c *Client) GetCall(ctx context.Context, callID string) (json.RawMessage, error) {
	body, err := c.do(ctx, OpGetCall, http.MethodGet, "/get-call/"+url.PathEscape(callID), nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// listRequestBody keeps only the filters that are present
func listRequestBody(f types.ListFilters) map[string]any {
	body := make(map[string]any)
	if f.Cursor != "" {
		body["cursor"] = f.Cursor
	}
	if f.Limit != nil {
		body["limit"] = *f.Limit
	}
	if f.Direction != "" {
		body["direction"] = string(f.Direction)
	}
	if f.StartTimestampFrom != nil {
		body["start_timestamp_from"] = *f.StartTimestampFrom
	}
	if f.StartTimestampTo != nil {
		body["start_timestamp_to"] = *f.StartTimestampTo
	}
	if f.AgentID != "" {
		body["agent_id"] = f.AgentID
	}
	return body
}

// do performs one upstream request and returns the body of a 2xx JSON response
func (c *Client) do(ctx context.Context, op, method, path string, payload any) (result []byte, err error) {
	start := time.Now()
	defer func() {
		outcome := OutcomeSuccess
		switch err.(type) {
		case nil:
		case *UpstreamError:
			outcome = OutcomeUpstream
		default:
			outcome = OutcomeTransport
		}
		c.observer.ObserveUpstream(op, outcome, time.Since(start))
	}()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &TransportError{Operation: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &TransportError{Operation: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", requestID(ctx))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Operation: op, Err: fmt.Errorf("%s %s: %w", method, path, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Operation: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Str("operation", op).
			Int("status", resp.StatusCode).
			Msg("upstream rejected request")
		return nil, &UpstreamError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(resp.StatusCode, body),
		}
	}

	if !json.Valid(body) {
		return nil, &TransportError{Operation: op, Err: ErrInvalidJSON}
	}

	return body, nil
}

// requestID reuses the inbound request id when there is one
func requestID(ctx context.Context) string {
	if id := chimiddleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}

// DecodeCalls decodes raw upstream call objects. Records that do not decode
// are skipped and returned as errors so the caller can log them.
func DecodeCalls(raw []json.RawMessage) ([]types.Call, []error) {
	calls := make([]types.Call, 0, len(raw))
	var errs []error
	for i, r := range raw {
		var call types.Call
		if err := json.Unmarshal(r, &call); err != nil {
			errs = append(errs, fmt.Errorf("call %d: %w", i, err))
			continue
		}
		calls = append(calls, call)
	}
	return calls, errs
}
