package callmetrics

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// fixedNow is a Wednesday afternoon
var fixedNow = time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)

type callOpt func(*types.Call)

func withSentiment(s string) callOpt {
	return func(c *types.Call) {
		if c.Analysis == nil {
			c.Analysis = &types.CallAnalysis{}
		}
		c.Analysis.UserSentiment = s
	}
}

func successful() callOpt {
	return func(c *types.Call) {
		if c.Analysis == nil {
			c.Analysis = &types.CallAnalysis{}
		}
		c.Analysis.CallSuccessful = true
	}
}

func newCall(start time.Time, minutes float64, dir types.Direction, opts ...callOpt) types.Call {
	c := types.Call{
		CallID:         start.Format(time.RFC3339Nano),
		Direction:      dir,
		StartTimestamp: start.UnixMilli(),
		DurationMs:     int64(minutes * 60000),
		EndTimestamp:   start.UnixMilli() + int64(minutes*60000),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// fakeCalls generates n calls spread over the 120 days before now
func fakeCalls(seed int64, n int, now time.Time) []types.Call {
	f := gofakeit.New(seed)
	directions := []string{"inbound", "outbound", "web_call"}
	sentiments := []string{"Positive", "Negative", "Neutral", "Unknown", ""}

	calls := make([]types.Call, 0, n)
	for i := 0; i < n; i++ {
		start := f.DateRange(now.AddDate(0, 0, -120), now)
		c := types.Call{
			CallID:         f.UUID(),
			AgentID:        f.UUID(),
			CallStatus:     "ended",
			Direction:      types.Direction(f.RandomString(directions)),
			DurationMs:     int64(f.Number(0, 30*60000)),
			StartTimestamp: start.UnixMilli(),
			FromNumber:     f.Phone(),
			ToNumber:       f.Phone(),
		}
		if f.Bool() {
			c.Analysis = &types.CallAnalysis{
				UserSentiment:  f.RandomString(sentiments),
				CallSuccessful: f.Bool(),
				CallSummary:    f.Sentence(8),
			}
		}
		calls = append(calls, c)
	}
	return calls
}
