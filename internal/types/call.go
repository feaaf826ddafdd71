package types

import (
	"encoding/json"
	"math"
)

// Direction is the direction of a call as reported by the telephony API
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// SentimentPositive is the exact sentiment label the dashboard treats as a new client
const SentimentPositive = "Positive"

// Call is a single call record as returned by the upstream API.
// The dashboard only reads these fields; it never mutates a record.
type Call struct {
	CallID         string        `json:"call_id"`
	AgentID        string        `json:"agent_id,omitempty"`
	CallStatus     string        `json:"call_status,omitempty"`
	Direction      Direction     `json:"direction,omitempty"`
	DurationMs     int64         `json:"duration_ms,omitempty"`
	StartTimestamp int64         `json:"start_timestamp,omitempty"` // ms since epoch
	EndTimestamp   int64         `json:"end_timestamp,omitempty"`   // ms since epoch
	FromNumber     string        `json:"from_number,omitempty"`
	ToNumber       string        `json:"to_number,omitempty"`
	Analysis       *CallAnalysis `json:"call_analysis,omitempty"`
	Cost           *CallCost     `json:"call_cost,omitempty"`
	Transcript     string        `json:"transcript,omitempty"`
	RecordingURL   string        `json:"recording_url,omitempty"`
	PublicLogURL   string        `json:"public_log_url,omitempty"`
	KnowledgeURL   string        `json:"knowledge_base_retrieved_contents_url,omitempty"`
}

// UnmarshalJSON accepts timestamps and durations in any JSON number form,
// such as 1.7e12 or 12345.5, rounded to whole milliseconds.
func (c *Call) UnmarshalJSON(data []byte) error {
	type plain Call
	aux := struct {
		*plain
		DurationMs     *float64 `json:"duration_ms"`
		StartTimestamp *float64 `json:"start_timestamp"`
		EndTimestamp   *float64 `json:"end_timestamp"`
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.DurationMs = millis(aux.DurationMs)
	c.StartTimestamp = millis(aux.StartTimestamp)
	c.EndTimestamp = millis(aux.EndTimestamp)
	return nil
}

func millis(v *float64) int64 {
	if v == nil {
		return 0
	}
	return int64(math.Round(*v))
}

// CallAnalysis is the post-call analysis attached by the upstream API
type CallAnalysis struct {
	UserSentiment  string `json:"user_sentiment,omitempty"`
	CallSuccessful bool   `json:"call_successful,omitempty"`
	CallSummary    string `json:"call_summary,omitempty"`
}

// CallCost holds the combined and itemized cost of a call
type CallCost struct {
	CombinedCost float64       `json:"combined_cost,omitempty"`
	ProductCosts []ProductCost `json:"product_costs,omitempty"`
}

// ProductCost is one itemized line of a call's cost
type ProductCost struct {
	Product   string  `json:"product"`
	UnitPrice float64 `json:"unit_price"`
	Cost      float64 `json:"cost"`
}

// Sentiment returns the analysis sentiment label, or "" when there is no analysis
func (c Call) Sentiment() string {
	if c.Analysis == nil {
		return ""
	}
	return c.Analysis.UserSentiment
}

// Successful reports whether the analysis marks the call successful
func (c Call) Successful() bool {
	return c.Analysis != nil && c.Analysis.CallSuccessful
}

// DurationMinutes returns the call duration in (fractional) minutes
func (c Call) DurationMinutes() float64 {
	return float64(c.DurationMs) / 60000
}
