package callmetrics

import (
	"fmt"

	"github.com/dennisdiepolder/calldash/internal/types"
)

// Category is the label assigned to a call by Classify
type Category string

const (
	CategoryInitialConsultation Category = "Initial Consultation"
	CategoryFollowUp            Category = "Follow-up"
	CategoryCaseUpdate          Category = "Case Update"
	CategoryEmergency           Category = "Emergency"
	CategoryOther               Category = "Other"
)

// Categories lists every category in chart order
var Categories = []Category{
	CategoryInitialConsultation,
	CategoryFollowUp,
	CategoryCaseUpdate,
	CategoryEmergency,
	CategoryOther,
}

// CategoryCount is one slice of the call types chart
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Fill     string   `json:"fill"`
}

// Classify assigns exactly one category to a call from its duration and sentiment.
// Rules are evaluated in order; the first match wins.
func Classify(c types.Call) Category {
	minutes := c.DurationMinutes()

	switch {
	case minutes > 15 && c.Sentiment() == types.SentimentPositive:
		return CategoryInitialConsultation
	case minutes > 10 && minutes <= 15:
		return CategoryCaseUpdate
	case minutes > 5 && minutes <= 10:
		return CategoryFollowUp
	case minutes <= 5:
		return CategoryEmergency
	default:
		return CategoryOther
	}
}

// CallTypesDistribution counts calls per category. All five categories are
// present, in Categories order, even when their count is zero.
func CallTypesDistribution(calls []types.Call) []CategoryCount {
	counts := make(map[Category]int, len(Categories))
	for _, c := range calls {
		counts[Classify(c)]++
	}

	data := make([]CategoryCount, 0, len(Categories))
	for i, cat := range Categories {
		data = append(data, CategoryCount{
			Category: cat,
			Count:    counts[cat],
			Fill:     fmt.Sprintf("var(--color-chart-%d)", i+1),
		})
	}
	return data
}
