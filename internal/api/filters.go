package api

import (
	"net/url"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// ParseListFilters reads the list filters from query parameters. Empty values
// count as absent. Numeric filters must be integers; everything else is
// forwarded for the upstream API to judge.
func ParseListFilters(q url.Values) (types.ListFilters, error) {
	return types.ListQuery{
		Cursor:             q.Get("cursor"),
		Limit:              q.Get("limit"),
		Direction:          q.Get("direction"),
		StartTimestampFrom: q.Get("start_timestamp_from"),
		StartTimestampTo:   q.Get("start_timestamp_to"),
		AgentID:            q.Get("agent_id"),
	}.Filters()
}
