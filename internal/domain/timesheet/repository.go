package timesheet

import (
	"context"
	"time"
)

type EntryFilter struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
	DayType    *DayType
}

type TimesheetRepository interface {
	// Upsert inserts or overwrites the row keyed on (EmployeeID, Date).
	Upsert(ctx context.Context, entry Entry) (Entry, error)
	GetByEmployeeDate(ctx context.Context, companyID string, employeeID string, date time.Time) (Entry, error)
	// LockByEmployeeDate is GetByEmployeeDate with a row lock for the current transaction.
	LockByEmployeeDate(ctx context.Context, companyID string, employeeID string, date time.Time) (Entry, error)
	List(ctx context.Context, companyID string, filter EntryFilter) ([]Entry, error)
	// CreateMissing inserts a blank row for every date that has none and
	// returns how many were inserted.
	CreateMissing(ctx context.Context, companyID string, employeeID string, dates []time.Time) (int, error)
	// InsertRevision archives a superseded version of an entry.
	InsertRevision(ctx context.Context, entry Entry) error
}
