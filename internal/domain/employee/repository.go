package employee

import "context"

// EmployeeRepository reads pay configuration. All lookups are scoped by
// companyID so one tenant can never read another tenant's employees.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	ListCompanyIDsWithActiveEmployees(ctx context.Context) ([]string, error)

	// LockForUpdate takes a row lock on the employee inside the caller's
	// transaction and returns the locked row. Ledger writes for the same
	// employee serialize on it.
	LockForUpdate(ctx context.Context, id string, companyID string) (Employee, error)
}
