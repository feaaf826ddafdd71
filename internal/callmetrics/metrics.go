// Package callmetrics derives dashboard statistics from a list of call records.
//
// Every function is pure: it reads the calls and a caller-supplied "now" and
// returns a fresh value. Relative windows start at local midnight in
// now.Location().
package callmetrics

import (
	"math"
	"time"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// Metrics is the headline metrics bundle shown on the dashboard cards
type Metrics struct {
	TotalCallsAllTime          int     `json:"totalCallsAllTime"`
	TotalCallsToday            int     `json:"totalCallsToday"`
	PercentChangeFromYesterday float64 `json:"percentChangeFromYesterday"`
	NewClientCalls             int     `json:"newClientCalls"`
	PercentChangeNewClients    float64 `json:"percentChangeNewClients"`
	AvgDuration                string  `json:"avgDuration"`
	DurationChange             string  `json:"durationChange"` // "+" or "-"
	DurationDiff               string  `json:"durationDiff"`
	ConversionRate             int     `json:"conversionRate"`
	ConversionRateChange       float64 `json:"conversionRateChange"`
}

// Calculate computes the headline metrics for calls as of now
func Calculate(calls []types.Call, now time.Time) Metrics {
	today := startOfDay(now)
	tomorrow := dayOffset(today, 1)

	todayCalls := filter(calls, between(today, tomorrow))
	yesterdayCalls := filter(calls, between(dayOffset(today, -1), today))
	lastWeekCalls := filter(calls, between(dayOffset(today, -7), tomorrow))
	last30DaysCalls := filter(calls, between(dayOffset(today, -30), tomorrow))
	last90DaysCalls := filter(calls, between(dayOffset(today, -90), tomorrow))

	// "New client" is positive sentiment; the baseline is the prior week's daily average.
	newClients := count(todayCalls, isPositive)
	newClientBaseline := float64(count(lastWeekCalls, isPositive)) / 7

	avgMs := meanDurationMs(calls)
	durationDiffMs := avgMs - meanDurationMs(last30DaysCalls)
	durationSign := "+"
	if durationDiffMs < 0 {
		durationSign = "-"
	}

	todayRate := successRate(todayCalls)

	return Metrics{
		TotalCallsAllTime:          len(calls),
		TotalCallsToday:            len(todayCalls),
		PercentChangeFromYesterday: percentChange(float64(len(todayCalls)), float64(len(yesterdayCalls))),
		NewClientCalls:             newClients,
		PercentChangeNewClients:    percentChange(float64(newClients), newClientBaseline),
		AvgDuration:                FormatDuration(avgMs),
		DurationChange:             durationSign,
		DurationDiff:               FormatDuration(durationDiffMs),
		ConversionRate:             int(math.Round(todayRate)),
		ConversionRateChange:       todayRate - successRate(last90DaysCalls),
	}
}
