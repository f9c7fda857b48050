package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Loan is an advance repaid through payroll deductions. An employee has at
// most one active loan; closed loans are kept unchanged for history.
type Loan struct {
	ID                string
	CompanyID         string
	EmployeeID        string
	Amount            decimal.Decimal
	InstallmentAmount *decimal.Decimal
	IssuedOn          time.Time
	Status            Status
	ClosedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (l Loan) IsActive() bool {
	return l.Status == StatusActive
}

// DueBetween sums the repayments of l falling due in [start, end].
//
// Without an installment amount the whole loan falls due on IssuedOn.
// Otherwise one installment falls due each month on the issue day, clamped to
// the month's last day, and the final one covers only the remainder. For a
// closed loan nothing falls due after the day it was closed, so summaries of
// periods the loan was active in never change.
func (l Loan) DueBetween(start, end time.Time) decimal.Decimal {
	due := decimal.Zero
	if !l.Amount.IsPositive() {
		return due
	}

	var cutoff *time.Time
	if l.Status == StatusClosed && l.ClosedAt != nil {
		y, m, d := l.ClosedAt.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, l.IssuedOn.Location())
		cutoff = &day
	}

	if l.InstallmentAmount == nil || !l.InstallmentAmount.IsPositive() {
		if !l.IssuedOn.Before(start) && !l.IssuedOn.After(end) {
			due = l.Amount
		}
		return due
	}

	remaining := l.Amount
	for k := 0; remaining.IsPositive(); k++ {
		on := addMonthsClamped(l.IssuedOn, k)
		if on.After(end) || (cutoff != nil && on.After(*cutoff)) {
			break
		}
		amount := decimal.Min(*l.InstallmentAmount, remaining)
		remaining = remaining.Sub(amount)
		if !on.Before(start) {
			due = due.Add(amount)
		}
	}
	return due
}

func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(t.Day(), last), 0, 0, 0, 0, t.Location())
}
