package loan

import "context"

type LoanRepository interface {
	Create(ctx context.Context, loan Loan) (Loan, error)
	GetByID(ctx context.Context, id string, companyID string) (Loan, error)
	// GetActiveByEmployee returns ErrNoActiveLoan when none exists.
	GetActiveByEmployee(ctx context.Context, companyID string, employeeID string) (Loan, error)
	ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]Loan, error)
	// UpdateActive changes amount, installment and issue date. Closed loans
	// are never matched.
	UpdateActive(ctx context.Context, loan Loan) (Loan, error)
	Close(ctx context.Context, id string, companyID string) (Loan, error)
}
