package types

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ListQuery is the transport form of ListFilters as it arrives in a query
// string. Empty values mean absent.
type ListQuery struct {
	Cursor             string `json:"cursor"`
	Limit              string `json:"limit" validate:"omitempty,integer"`
	Direction          string `json:"direction"`
	StartTimestampFrom string `json:"start_timestamp_from" validate:"omitempty,integer"`
	StartTimestampTo   string `json:"start_timestamp_to" validate:"omitempty,integer"`
	AgentID            string `json:"agent_id"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := strconv.ParseInt(fl.Field().String(), 10, 64)
		return err == nil
	})
	return v
}

// Validate rejects values that cannot be coerced to the numbers the upstream
// API expects. Range and enum checks are left to the upstream.
func (q ListQuery) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "integer" {
			msgs = append(msgs, fmt.Sprintf("invalid %s: must be an integer", fe.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("invalid %s: must satisfy %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Filters validates q and converts it to ListFilters
func (q ListQuery) Filters() (ListFilters, error) {
	if err := q.Validate(); err != nil {
		return ListFilters{}, err
	}
	return ListFilters{
		Cursor:             q.Cursor,
		Limit:              optionalInt(q.Limit),
		Direction:          Direction(q.Direction),
		StartTimestampFrom: optionalInt(q.StartTimestampFrom),
		StartTimestampTo:   optionalInt(q.StartTimestampTo),
		AgentID:            q.AgentID,
	}, nil
}

// optionalInt must only see values that passed validation
func optionalInt(s string) *int64 {
	if s == "" {
		return nil
	}
	v, _ := strconv.ParseInt(s, 10, 64)
	return &v
}
