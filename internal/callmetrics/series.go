package callmetrics

import (
	"math"
	"time"

	"github.com/dennisdiepolder/calldash/internal/types"
)

const (
	weeklyDays    = 7
	trendDays     = 30
	monthlyMonths = 6
)

// DayVolume is one day of the weekly call volume chart
type DayVolume struct {
	Day      string `json:"day"`
	Incoming int    `json:"incoming"`
	Outgoing int    `json:"outgoing"`
}

// MonthPerformance is one month of the monthly performance chart.
// Month is the short name only; buckets a year apart are not disambiguated.
type MonthPerformance struct {
	Month          string `json:"month"`
	Calls          int    `json:"calls"`
	ConversionRate int    `json:"conversionRate"`
}

// DurationPoint is one day of the duration trend chart, in minutes
type DurationPoint struct {
	Date     string  `json:"date"`
	Duration float64 `json:"duration"`
}

// WeeklyCallVolume returns inbound and outbound counts for each of the last
// 7 calendar days, oldest first. Other directions are not counted.
func WeeklyCallVolume(calls []types.Call, now time.Time) []DayVolume {
	today := startOfDay(now)
	data := make([]DayVolume, 0, weeklyDays)

	for i := weeklyDays - 1; i >= 0; i-- {
		day := dayOffset(today, -i)
		dayCalls := filter(calls, between(day, dayOffset(day, 1)))

		data = append(data, DayVolume{
			Day: day.Format("Mon"),
			Incoming: count(dayCalls, func(c types.Call) bool {
				return c.Direction == types.DirectionInbound
			}),
			Outgoing: count(dayCalls, func(c types.Call) bool {
				return c.Direction == types.DirectionOutbound
			}),
		})
	}

	return data
}

// MonthlyPerformance returns call count and rounded conversion rate for each of
// the last 6 calendar months including the current one, oldest first
func MonthlyPerformance(calls []types.Call, now time.Time) []MonthPerformance {
	data := make([]MonthPerformance, 0, monthlyMonths)

	for i := monthlyMonths - 1; i >= 0; i-- {
		month := monthOffset(now, -i)
		monthCalls := filter(calls, between(month, monthOffset(month, 1)))

		data = append(data, MonthPerformance{
			Month:          month.Format("Jan"),
			Calls:          len(monthCalls),
			ConversionRate: int(math.Round(successRate(monthCalls))),
		})
	}

	return data
}

// CallDurationTrends returns the mean call duration in minutes (one decimal)
// for each of the last 30 calendar days, oldest first
func CallDurationTrends(calls []types.Call, now time.Time) []DurationPoint {
	today := startOfDay(now)
	data := make([]DurationPoint, 0, trendDays)

	for i := trendDays - 1; i >= 0; i-- {
		day := dayOffset(today, -i)
		dayCalls := filter(calls, between(day, dayOffset(day, 1)))
		minutes := meanDurationMs(dayCalls) / 60000

		data = append(data, DurationPoint{
			Date:     day.Format("Jan 2"),
			Duration: math.Round(minutes*10) / 10,
		})
	}

	return data
}
