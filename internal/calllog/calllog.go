// Package calllog builds the list and detail views of individual calls shown
// on the call-logs page.
package calllog

import (
	"fmt"
	"strings"
	"time"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
	"github.com/dennisdiepolder/calldash/internal/types"
)

const (
	shortIDLength = 8
	timeLayout    = "3:04 PM"
	dateLayout    = "Jan 2, 2006"
	missing       = "-"
	unknown       = "Unknown"
)

// Options control how entries are rendered
type Options struct {
	Location *time.Location
	Region   string // default phone region, e.g. "US"
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Entry is one row of the call log
type Entry struct {
	CallID       string               `json:"callId"`
	ShortID      string               `json:"shortId"`
	Direction    types.Direction      `json:"direction,omitempty"`
	Counterparty string               `json:"counterparty"`
	PhoneNumber  string               `json:"phoneNumber"`
	Duration     string               `json:"duration"`
	Type         callmetrics.Category `json:"type"`
	Status       string               `json:"status"`
	Time         string               `json:"time"`
	Date         string               `json:"date"`
	Sentiment    string               `json:"sentiment,omitempty"`
	Successful   bool                 `json:"successful"`

	// searchPhone is the raw number the search box matches against
	searchPhone string
}

// Build maps calls to log entries, preserving order
func Build(calls []types.Call, opts Options) []Entry {
	entries := make([]Entry, 0, len(calls))
	for _, c := range calls {
		entries = append(entries, newEntry(c, opts))
	}
	return entries
}

func newEntry(c types.Call, opts Options) Entry {
	number, label := counterpartyNumber(c)

	counterparty := label + unknown
	display := ""
	if number != "" {
		display = FormatPhone(number, opts.Region)
		counterparty = label + display
	}

	status := c.CallStatus
	if status == "" {
		status = unknown
	}

	e := Entry{
		CallID:       c.CallID,
		ShortID:      ShortID(c.CallID),
		Direction:    c.Direction,
		Counterparty: counterparty,
		PhoneNumber:  display,
		Duration:     callmetrics.FormatDuration(float64(c.DurationMs)),
		Type:         callmetrics.Classify(c),
		Status:       status,
		Time:         missing,
		Date:         missing,
		Sentiment:    c.Sentiment(),
		Successful:   c.Successful(),
		searchPhone:  firstPresent(c.FromNumber, c.ToNumber),
	}

	if c.StartTimestamp != 0 {
		start := time.UnixMilli(c.StartTimestamp).In(opts.location())
		e.Time = start.Format(timeLayout)
		e.Date = start.Format(dateLayout)
	}
	return e
}

// counterpartyNumber is the caller for inbound calls and the callee otherwise
func counterpartyNumber(c types.Call) (number, label string) {
	if c.Direction == types.DirectionInbound {
		return c.FromNumber, "From: "
	}
	return c.ToNumber, "To: "
}

// ShortID is the first eight characters of id followed by an ellipsis
func ShortID(id string) string {
	r := []rune(id)
	if len(r) > shortIDLength {
		r = r[:shortIDLength]
	}
	return string(r) + "..."
}

// Filter keeps entries whose type, call id or phone number contains search,
// ignoring case. An empty search keeps everything.
func Filter(entries []Entry, search string) []Entry {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e Entry, needle string) bool {
	for _, field := range []string{string(e.Type), e.CallID, e.searchPhone} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func firstPresent(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// formatMinutesSeconds renders milliseconds as "Xm YYs"
func formatMinutesSeconds(ms int64) string {
	sec := ms / 1000
	return fmt.Sprintf("%dm %02ds", sec/60, sec%60)
}
