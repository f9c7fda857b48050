package bonus

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccrualSource string

const (
	AccrualSourceAttendance AccrualSource = "attendance"
	AccrualSourceManual     AccrualSource = "manual"
)

// Accrual credits the ledger. Rows are append-only.
type Accrual struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Amount      decimal.Decimal
	BonusDays   int
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	AccruedOn   time.Time
	Source      AccrualSource
	Notes       *string
	CreatedAt   time.Time
}

// Withdrawal debits the ledger. Rows are append-only.
type Withdrawal struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Amount      decimal.Decimal
	WithdrawnOn time.Time
	Notes       *string
	CreatedBy   *string
	CreatedAt   time.Time
}

// Totals are the two sums the balance is derived from.
type Totals struct {
	Accrued   decimal.Decimal
	Withdrawn decimal.Decimal
}

func (t Totals) Balance() decimal.Decimal {
	return t.Accrued.Sub(t.Withdrawn)
}
