package payroll

import (
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

type DeductionKind string

const (
	DeductionKindAdvance DeductionKind = "advance"
	DeductionKindManual  DeductionKind = "manual"
)

func (k DeductionKind) IsValid() bool {
	return k == DeductionKindAdvance || k == DeductionKindManual
}

// Deduction is a one-off amount taken from pay in the period it covers.
type Deduction struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Kind        DeductionKind
	Amount      decimal.Decimal
	PeriodStart time.Time
	PeriodEnd   time.Time
	Notes       *string
	CreatedAt   time.Time
}

// Within reports whether the deduction's bounds lie inside [start, end].
func (d Deduction) Within(start, end time.Time) bool {
	return !d.PeriodStart.Before(start) && !d.PeriodEnd.After(end)
}

type DailyEarning struct {
	Date          time.Time
	DayType       timesheet.DayType
	BillableHours decimal.Decimal
	Earnings      decimal.Decimal
}

// PeriodSummary is computed on request and never stored.
type PeriodSummary struct {
	EmployeeID       string
	EmployeeName     string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	GrossPay         decimal.Decimal
	LoanDeduction    decimal.Decimal
	AdvanceDeduction decimal.Decimal
	ManualDeduction  decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetPay           decimal.Decimal
	OverDeducted     bool
	Shortfall        decimal.Decimal
	Warnings         []string
	DailyEarnings    []DailyEarning
	Attendance       timesheet.AttendanceAggregate
}
