// Package dashboard loads the call records behind the dashboard page and turns
// them into a snapshot.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
	"github.com/dennisdiepolder/calldash/internal/retell"
	"github.com/dennisdiepolder/calldash/internal/types"
)

// CallLister is the part of the Retell client the dashboard needs
type CallLister interface {
	ListCalls(ctx context.Context, filters types.ListFilters) (*types.CallPage, error)
}

// AggregationRecorder observes snapshot builds
type AggregationRecorder interface {
	RecordAggregation(duration time.Duration, calls int)
}

type nopRecorder struct{}

func (nopRecorder) RecordAggregation(time.Duration, int) {}

// Service builds dashboard snapshots from a single unfiltered list call
type Service struct {
	calls    CallLister
	location *time.Location
	now      func() time.Time
	recorder AggregationRecorder
	logger   zerolog.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRecorder reports aggregation timings
func WithRecorder(r AggregationRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService creates a dashboard service. A nil location means time.Local.
func NewService(calls CallLister, location *time.Location, logger zerolog.Logger, opts ...Option) *Service {
	if location == nil {
		location = time.Local
	}
	s := &Service{
		calls:    calls,
		location: location,
		now:      time.Now,
		recorder: nopRecorder{},
		logger:   logger.With().Str("component", "dashboard").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calls fetches the first page of calls with no filters and decodes it.
// Records that cannot be decoded are logged and skipped.
func (s *Service) Calls(ctx context.Context) ([]types.Call, error) {
	page, err := s.calls.ListCalls(ctx, types.ListFilters{})
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}

	calls, decodeErrs := retell.DecodeCalls(page.Calls)
	for _, err := range decodeErrs {
		s.logger.Warn().Err(err).Msg("skipping undecodable call record")
	}
	return calls, nil
}

// Load fetches calls and aggregates them against a single sampled now
func (s *Service) Load(ctx context.Context) (callmetrics.Snapshot, error) {
	calls, err := s.Calls(ctx)
	if err != nil {
		return callmetrics.Snapshot{}, err
	}
	return s.Build(calls), nil
}

// Build aggregates already fetched calls
func (s *Service) Build(calls []types.Call) callmetrics.Snapshot {
	now := s.Now()

	start := time.Now()
	snapshot := callmetrics.BuildSnapshot(calls, now)
	elapsed := time.Since(start)
	s.recorder.RecordAggregation(elapsed, len(calls))

	s.logger.Debug().
		Int("calls", len(calls)).
		Dur("duration", elapsed).
		Msg("snapshot built")
	return snapshot
}

// Now is the service clock in the dashboard time zone
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

// Location is the dashboard time zone
func (s *Service) Location() *time.Location {
	return s.location
}
