package retell

import (
	"bytes"
	"encoding/json"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// document is an upstream list body decoded just far enough to inspect its shape
type document struct {
	array  []json.RawMessage
	object map[string]json.RawMessage
}

func parseDocument(body []byte) document {
	var doc document
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return doc
	}

	switch trimmed[0] {
	case '[':
		_ = json.Unmarshal(trimmed, &doc.array)
	case '{':
		_ = json.Unmarshal(trimmed, &doc.object)
	}
	return doc
}

// Extraction is the outcome of matching an upstream list body against the
// known response shapes. Found is false when no rule matched.
type Extraction struct {
	Rule  string
	Calls []json.RawMessage
	Found bool
}

type extractionRule struct {
	name  string
	match func(document) ([]json.RawMessage, bool)
}

// listRules are tried in order; the upstream has returned each of these shapes
var listRules = []extractionRule{
	{name: "array", match: func(d document) ([]json.RawMessage, bool) {
		return d.array, d.array != nil
	}},
	{name: "calls", match: arrayField("calls")},
	{name: "data", match: arrayField("data")},
	{name: "items", match: arrayField("items")},
}

func arrayField(key string) func(document) ([]json.RawMessage, bool) {
	return func(d document) ([]json.RawMessage, bool) {
		raw, ok := d.object[key]
		if !ok {
			return nil, false
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			return nil, false
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, false
		}
		return items, true
	}
}

// ExtractCalls returns the first array-valued match for the list body
func ExtractCalls(body []byte) Extraction {
	return extract(parseDocument(body))
}

func extract(doc document) Extraction {
	for _, rule := range listRules {
		if calls, ok := rule.match(doc); ok {
			if calls == nil {
				calls = []json.RawMessage{}
			}
			return Extraction{Rule: rule.name, Calls: calls, Found: true}
		}
	}
	return Extraction{Calls: []json.RawMessage{}}
}

// cursorKeys are checked in order for the next-page cursor
var cursorKeys = []string{"next_cursor", "cursor"}

// NextCursor returns the first non-empty string cursor in the list body, or nil
func NextCursor(body []byte) *string {
	return nextCursor(parseDocument(body))
}

func nextCursor(doc document) *string {
	for _, key := range cursorKeys {
		raw, ok := doc.object[key]
		if !ok {
			continue
		}
		var cursor string
		if err := json.Unmarshal(raw, &cursor); err == nil && cursor != "" {
			return &cursor
		}
	}
	return nil
}

// Normalize converts any known list body shape into a CallPage.
// Unknown shapes produce an empty page rather than an error.
func Normalize(body []byte) types.CallPage {
	doc := parseDocument(body)
	return types.CallPage{
		Calls:      extract(doc).Calls,
		NextCursor: nextCursor(doc),
	}
}
