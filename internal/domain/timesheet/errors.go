package timesheet

import "errors"

var (
	ErrEntryNotFound   = errors.New("timesheet entry not found")
	ErrEmptyEntryBatch = errors.New("at least one timesheet entry is required")
)
