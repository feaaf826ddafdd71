package callmetrics

import (
	"fmt"
	"math"
	"time"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// window is a half-open [from, to) interval in milliseconds since epoch
type window struct {
	from int64
	to   int64
}

func (w window) contains(c types.Call) bool {
	return c.StartTimestamp >= w.from && c.StartTimestamp < w.to
}

// between builds the window [from, to) from two local instants
func between(from, to time.Time) window {
	return window{from: from.UnixMilli(), to: to.UnixMilli()}
}

// startOfDay returns local midnight of t's calendar day
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayOffset returns local midnight n calendar days after day (n may be negative).
// time.Date normalizes overflowing days, so DST changes never shift the boundary.
func dayOffset(day time.Time, n int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, day.Location())
}

// monthOffset returns local midnight of the first day of the month n months after t
func monthOffset(t time.Time, n int) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

func filter(calls []types.Call, w window) []types.Call {
	out := make([]types.Call, 0)
	for _, c := range calls {
		if w.contains(c) {
			out = append(out, c)
		}
	}
	return out
}

func count(calls []types.Call, pred func(types.Call) bool) int {
	n := 0
	for _, c := range calls {
		if pred(c) {
			n++
		}
	}
	return n
}

func isPositive(c types.Call) bool { return c.Sentiment() == types.SentimentPositive }

func isSuccessful(c types.Call) bool { return c.Successful() }

// meanDurationMs averages duration over calls, flooring the divisor at 1 so an
// empty set yields 0
func meanDurationMs(calls []types.Call) float64 {
	var sum float64
	for _, c := range calls {
		sum += float64(c.DurationMs)
	}
	return sum / math.Max(float64(len(calls)), 1)
}

// successRate is the percentage of successful calls, 0 for an empty set
func successRate(calls []types.Call) float64 {
	if len(calls) == 0 {
		return 0
	}
	return float64(count(calls, isSuccessful)) / float64(len(calls)) * 100
}

// percentChange is the relative change from prev to cur in percent, 0 when prev is 0
func percentChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// FormatDuration renders milliseconds as M:SS. Negative inputs use their magnitude.
func FormatDuration(ms float64) string {
	ms = math.Abs(ms)
	minutes := int64(math.Floor(ms / 60000))
	seconds := int64(math.Floor(math.Mod(ms, 60000) / 1000))
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
