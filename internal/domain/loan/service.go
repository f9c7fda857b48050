package loan

import "context"

type LoanService interface {
	// GetActiveLoan returns nil when the employee has no active loan.
	GetActiveLoan(ctx context.Context, employeeID string) (*LoanResponse, error)
	IssueOrUpdate(ctx context.Context, req IssueOrUpdateRequest) (IssueOrUpdateResponse, error)
	Close(ctx context.Context, loanID string) (LoanResponse, error)
	ListLoans(ctx context.Context, employeeID string) ([]LoanResponse, error)
}
