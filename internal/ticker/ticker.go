package ticker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
)

// Refresher reloads a snapshot and broadcasts it to connected clients
type Refresher interface {
	Refresh(ctx context.Context) (callmetrics.Snapshot, error)
}

// ClientCounter reports how many clients are connected
type ClientCounter interface {
	ClientCount() int
}

// Ticker periodically pushes a fresh snapshot while anyone is listening
type Ticker struct {
	refresher Refresher
	clients   ClientCounter
	interval  time.Duration
	logger    zerolog.Logger
}

// NewTicker creates a new Ticker
func NewTicker(refresher Refresher, clients ClientCounter, interval time.Duration, logger zerolog.Logger) *Ticker {
	return &Ticker{
		refresher: refresher,
		clients:   clients,
		interval:  interval,
		logger:    logger.With().Str("component", "ticker").Logger(),
	}
}

// Start pushes snapshots until ctx is done. A tick with no connected clients
// does not touch the upstream API.
func (t *Ticker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("ticker started")

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("ticker stopped")
			return

		case <-ticker.C:
			clients := t.clients.ClientCount()
			if clients == 0 {
				continue
			}

			snapshot, err := t.refresher.Refresh(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				t.logger.Warn().Err(err).Msg("periodic snapshot refresh failed")
				continue
			}

			t.logger.Debug().
				Int("clients", clients).
				Int("total_calls", snapshot.Metrics.TotalCallsAllTime).
				Msg("pushed snapshot")
		}
	}
}
