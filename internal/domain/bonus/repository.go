package bonus

import (
	"context"
	"time"
)

type HistoryFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Limit      uint64
}

type BonusRepository interface {
	// Totals sums accruals and withdrawals for an employee. Inside a
	// transaction the caller is expected to hold the employee row lock.
	Totals(ctx context.Context, companyID string, employeeID string) (Totals, error)
	InsertAccrual(ctx context.Context, accrual Accrual) (Accrual, error)
	InsertWithdrawal(ctx context.Context, withdrawal Withdrawal) (Withdrawal, error)
	ListAccruals(ctx context.Context, companyID string, filter HistoryFilter) ([]Accrual, error)
	ListWithdrawals(ctx context.Context, companyID string, filter HistoryFilter) ([]Withdrawal, error)
	// AccrualExists reports whether an attendance accrual covers exactly this period.
	AccrualExists(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (bool, error)
}
