package bonus

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BonusService interface {
	// Accrue appends an attendance-derived credit. It never overwrites.
	Accrue(ctx context.Context, employeeID string, amount decimal.Decimal, date time.Time) (Accrual, error)
	ManualAccrue(ctx context.Context, req ManualAccrueRequest) (AccrualResponse, error)
	AccruePeriod(ctx context.Context, companyID string, start, end time.Time) (AccrualRunResponse, error)
	GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (WithdrawalResponse, error)
	ListWithdrawals(ctx context.Context, employeeID string) ([]WithdrawalResponse, error)
	ListAccruals(ctx context.Context, employeeID string) ([]AccrualResponse, error)
}
