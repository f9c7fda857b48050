package timesheet

import (
	"context"
	"time"
)

type TimesheetService interface {
	OpenPeriod(ctx context.Context, req OpenPeriodRequest) (OpenPeriodResponse, error)
	SaveEntries(ctx context.Context, req SaveEntriesRequest) (SaveEntriesResponse, error)
	GetEntry(ctx context.Context, employeeID string, date time.Time) (EntryResponse, error)
	ListEntries(ctx context.Context, req ListEntriesRequest) ([]EntryResponse, error)
	DailyEarnings(ctx context.Context, employeeID string, date time.Time) (DailyEarningsResponse, error)
}
