package types

import "encoding/json"

// ListFilters are the optional filters accepted by the list-calls proxy.
// A nil pointer or empty string means the filter is absent and is not forwarded.
// Values are forwarded as given; the upstream API decides whether they are valid.
type ListFilters struct {
	Cursor             string    `json:"cursor,omitempty"`
	Limit              *int64    `json:"limit,omitempty"`
	Direction          Direction `json:"direction,omitempty"`
	StartTimestampFrom *int64    `json:"start_timestamp_from,omitempty"`
	StartTimestampTo   *int64    `json:"start_timestamp_to,omitempty"`
	AgentID            string    `json:"agent_id,omitempty"`
}

// CallPage is the normalized list response. Calls are kept as raw upstream JSON
// so that fields this service does not model are passed through untouched.
type CallPage struct {
	Calls      []json.RawMessage `json:"calls"`
	NextCursor *string           `json:"next_cursor"`
}

// ErrorResponse is the JSON body returned on any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
