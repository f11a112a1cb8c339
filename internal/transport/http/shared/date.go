package shared

import (
	"strings"
	"time"

	"hrportal/internal/domain/errs"
)

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC calendar day.
// An empty value yields the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := parsed.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// DateField is ParseDate reporting failures as a validation issue on field.
func DateField(field, value string) (time.Time, error) {
	parsed, err := ParseDate(value)
	if err != nil {
		return time.Time{}, errs.Invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return parsed, nil
}
