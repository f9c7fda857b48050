package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// WithPrefix scopes every field under prefix, e.g. "entries[3]" + "clock_in"
// becomes "entries[3].clock_in".
func (v ValidationErrors) WithPrefix(prefix string) ValidationErrors {
	out := make(ValidationErrors, 0, len(v))
	for _, err := range v {
		out = append(out, ValidationError{Field: prefix + "." + err.Field, Message: err.Message})
	}
	return out
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// UUIDv7 regex: version 7 (the 15th character must be '7'), all lowercase hex digits.
var uuidv7Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUIDv7 validation
func IsValidUUID(uuid string) bool {
	return uuidv7Regex.MatchString(strings.ToLower(uuid))
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, dateStr)
	return date, err == nil
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)

// IsValidClock reports whether s is a 24h time of day ("HH:MM" or "HH:MM:SS").
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// ParsePeriod validates an inclusive [start, end] date range. maxDays <= 0
// disables the length check.
func ParsePeriod(start, end string, maxDays int) (time.Time, time.Time, error) {
	var errs ValidationErrors

	startDate, okStart := IsValidDate(start)
	if start == "" {
		errs = append(errs, ValidationError{Field: "period_start", Message: "is required"})
	} else if !okStart {
		errs = append(errs, ValidationError{Field: "period_start", Message: "must be in YYYY-MM-DD format"})
	}

	endDate, okEnd := IsValidDate(end)
	if end == "" {
		errs = append(errs, ValidationError{Field: "period_end", Message: "is required"})
	} else if !okEnd {
		errs = append(errs, ValidationError{Field: "period_end", Message: "must be in YYYY-MM-DD format"})
	}

	if okStart && okEnd {
		if endDate.Before(startDate) {
			errs = append(errs, ValidationError{Field: "period_end", Message: "must not be before period_start"})
		} else if maxDays > 0 && int(endDate.Sub(startDate).Hours()/24)+1 > maxDays {
			errs = append(errs, ValidationError{Field: "period_end", Message: fmt.Sprintf("period must not exceed %d days", maxDays)})
		}
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return startDate, endDate, nil
}
