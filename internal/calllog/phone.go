package calllog

import (
	"github.com/nyaruka/phonenumbers"
)

// FormatPhone renders a number in national format when it belongs to the
// default region and in international format otherwise. Numbers that do not
// parse are returned unchanged.
func FormatPhone(raw, region string) string {
	if raw == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}

	if phonenumbers.GetRegionCodeForNumber(parsed) == region {
		return phonenumbers.Format(parsed, phonenumbers.NATIONAL)
	}
	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}
