package calllog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
	"github.com/dennisdiepolder/calldash/internal/types"
)

const (
	detailTimeLayout = "January 2, 2006 at 03:04 PM"
	noSummary        = "No summary available"
)

// Detail is the single-call view
type Detail struct {
	CallID       string               `json:"callId"`
	AgentID      string               `json:"agentId"`
	Status       string               `json:"status"`
	Direction    types.Direction      `json:"direction,omitempty"`
	From         string               `json:"from"`
	To           string               `json:"to"`
	Duration     string               `json:"duration"`
	Type         callmetrics.Category `json:"type"`
	StartedAt    string               `json:"startedAt"`
	EndedAt      string               `json:"endedAt"`
	Sentiment    string               `json:"sentiment"`
	Successful   bool                 `json:"successful"`
	Summary      string               `json:"summary,omitempty"`
	Transcript   string               `json:"transcript,omitempty"`
	RecordingURL string               `json:"recordingUrl,omitempty"`
	PublicLogURL string               `json:"publicLogUrl,omitempty"`
	KnowledgeURL string               `json:"knowledgeBaseUrl,omitempty"`
	Cost         CostBreakdown        `json:"cost"`
}

// CostBreakdown itemizes a call's cost. Amounts are decimals so that the
// item total is exact.
type CostBreakdown struct {
	Items        []CostItem      `json:"items"`
	ItemsTotal   decimal.Decimal `json:"itemsTotal"`
	CombinedCost decimal.Decimal `json:"combinedCost"`
}

// CostItem is one product line of the breakdown
type CostItem struct {
	Product   string          `json:"product"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Cost      decimal.Decimal `json:"cost"`
}

// BuildDetail renders a single call for the detail page
func BuildDetail(c types.Call, opts Options) Detail {
	loc := opts.location()

	d := Detail{
		CallID:       c.CallID,
		AgentID:      orMissing(c.AgentID),
		Status:       orMissing(c.CallStatus),
		Direction:    c.Direction,
		From:         orMissing(FormatPhone(c.FromNumber, opts.Region)),
		To:           orMissing(FormatPhone(c.ToNumber, opts.Region)),
		Duration:     missing,
		Type:         callmetrics.Classify(c),
		StartedAt:    formatTimestamp(c.StartTimestamp, loc),
		EndedAt:      formatTimestamp(c.EndTimestamp, loc),
		Sentiment:    orMissing(c.Sentiment()),
		Successful:   c.Successful(),
		Transcript:   c.Transcript,
		RecordingURL: c.RecordingURL,
		PublicLogURL: c.PublicLogURL,
		KnowledgeURL: c.KnowledgeURL,
		Cost:         costBreakdown(c.Cost),
	}

	if c.DurationMs > 0 {
		d.Duration = formatMinutesSeconds(c.DurationMs)
	}
	if c.Analysis != nil {
		d.Summary = c.Analysis.CallSummary
		if d.Summary == "" {
			d.Summary = noSummary
		}
	}
	return d
}

func costBreakdown(cost *types.CallCost) CostBreakdown {
	b := CostBreakdown{Items: []CostItem{}}
	if cost == nil {
		return b
	}

	for _, p := range cost.ProductCosts {
		item := CostItem{
			Product:   p.Product,
			UnitPrice: decimal.NewFromFloat(p.UnitPrice),
			Cost:      decimal.NewFromFloat(p.Cost),
		}
		b.Items = append(b.Items, item)
		b.ItemsTotal = b.ItemsTotal.Add(item.Cost)
	}
	b.CombinedCost = decimal.NewFromFloat(cost.CombinedCost)
	return b
}

func formatTimestamp(ms int64, loc *time.Location) string {
	if ms == 0 {
		return missing
	}
	return time.UnixMilli(ms).In(loc).Format(detailTimeLayout)
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}
