package domain

import (
	"time"

	dErrors "btocore/pkg/domain-errors"
)

// DateFormat is the interchange layout for every date field (YYYY-MM-DD).
const DateFormat = "2006-01-02"

// ParseDate parses an interchange date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "invalid date: "+s)
	}
	return t, nil
}

// FormatDate renders a date in the interchange layout. Zero times render as
// the empty string so optional date columns stay blank.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}
