package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dennisdiepolder/calldash/internal/types"
)

type fakeClient struct {
	mu      sync.Mutex
	page    *types.CallPage
	call    json.RawMessage
	err     error
	listed  []types.ListFilters
	fetched []string
}

func (f *fakeClient) ListCalls(_ context.Context, filters types.ListFilters) (*types.CallPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, filters)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeClient) GetCall(_ context.Context, callID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, callID)
	if f.err != nil {
		return nil, f.err
	}
	return f.call, nil
}

type fakeReporter struct {
	errs []error
}

func (f *fakeReporter) CaptureError(_ context.Context, err error) {
	f.errs = append(f.errs, err)
}

// serve routes a single request through a chi router so URL params resolve
func serve(method, pattern, target string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}
