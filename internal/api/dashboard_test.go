package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
	"github.com/dennisdiepolder/calldash/internal/retell"
)

type fakeSnapshots struct {
	snapshot  callmetrics.Snapshot
	err       error
	loads     int
	refreshes int
}

func (f *fakeSnapshots) Load(context.Context) (callmetrics.Snapshot, error) {
	f.loads++
	return f.snapshot, f.err
}

func (f *fakeSnapshots) Refresh(context.Context) (callmetrics.Snapshot, error) {
	f.refreshes++
	return f.snapshot, f.err
}

func TestDashboardGet(t *testing.T) {
	now := time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)
	src := &fakeSnapshots{snapshot: callmetrics.BuildSnapshot(nil, now)}
	h := NewDashboardHandler(src, src, nil, zerolog.Nop())

	rec := serve(http.MethodGet, "/api/dashboard", "/api/dashboard", h.HandleGet)

	require.Equal(t, http.StatusOK, rec.Code)
	var body callmetrics.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.WeeklyVolume, 7)
	assert.Len(t, body.MonthlyPerformance, 6)
	assert.Len(t, body.DurationTrends, 30)
	assert.Len(t, body.CallTypes, 5)
	assert.Equal(t, "0:00", body.Metrics.AvgDuration)
	assert.Equal(t, 1, src.loads)
	assert.Zero(t, src.refreshes)
}

func TestDashboardRefresh(t *testing.T) {
	src := &fakeSnapshots{}
	h := NewDashboardHandler(src, src, nil, zerolog.Nop())

	rec := serve(http.MethodPost, "/api/dashboard/refresh", "/api/dashboard/refresh", h.HandleRefresh)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, src.refreshes)
	assert.Zero(t, src.loads)
}

func TestDashboardUpstreamFailure(t *testing.T) {
	src := &fakeSnapshots{err: &retell.UpstreamError{StatusCode: http.StatusForbidden, Message: "forbidden"}}
	h := NewDashboardHandler(src, src, nil, zerolog.Nop())

	rec := serve(http.MethodGet, "/api/dashboard", "/api/dashboard", h.HandleGet)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec))
}
