package callmetrics

import (
	"time"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// Snapshot is everything the dashboard renders, derived from one fetch.
// It is built once and never modified.
type Snapshot struct {
	GeneratedAt        time.Time          `json:"generatedAt"`
	Metrics            Metrics            `json:"metrics"`
	WeeklyVolume       []DayVolume        `json:"weeklyVolume"`
	MonthlyPerformance []MonthPerformance `json:"monthlyPerformance"`
	DurationTrends     []DurationPoint    `json:"durationTrends"`
	CallTypes          []CategoryCount    `json:"callTypes"`
}

// BuildSnapshot runs every aggregation against calls using the same now
func BuildSnapshot(calls []types.Call, now time.Time) Snapshot {
	return Snapshot{
		GeneratedAt:        now,
		Metrics:            Calculate(calls, now),
		WeeklyVolume:       WeeklyCallVolume(calls, now),
		MonthlyPerformance: MonthlyPerformance(calls, now),
		DurationTrends:     CallDurationTrends(calls, now),
		CallTypes:          CallTypesDistribution(calls),
	}
}
