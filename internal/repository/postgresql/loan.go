package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepositoryImpl{db: db}
}

const loanColumns = `id, company_id, employee_id, amount, installment_amount, issued_on, status, closed_at, created_at, updated_at`

func scanLoan(row pgx.Row) (loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.EmployeeID, &l.Amount, &l.InstallmentAmount,
		&l.IssuedOn, &l.Status, &l.ClosedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Create implements loan.LoanRepository.
func (r *loanRepositoryImpl) Create(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loans (id, company_id, employee_id, amount, installment_amount, issued_on, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + loanColumns

	created, err := scanLoan(q.QueryRow(ctx, query,
		l.ID, l.CompanyID, l.EmployeeID, l.Amount, l.InstallmentAmount, l.IssuedOn, loan.StatusActive,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_loans_one_active_per_employee") {
			return loan.Loan{}, loan.ErrActiveLoanExists
		}
		return loan.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}
	return created, nil
}

// GetByID implements loan.LoanRepository.
func (r *loanRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanLoan(q.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 AND company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, fmt.Errorf("failed to get loan %s: %w", id, err)
	}
	return found, nil
}

// GetActiveByEmployee implements loan.LoanRepository.
func (r *loanRepositoryImpl) GetActiveByEmployee(ctx context.Context, companyID string, employeeID string) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanLoan(q.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE company_id = $1 AND employee_id = $2 AND status = $3
	`, companyID, employeeID, loan.StatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrNoActiveLoan
		}
		return loan.Loan{}, fmt.Errorf("failed to get active loan: %w", err)
	}
	return found, nil
}

// ListByEmployee implements loan.LoanRepository.
func (r *loanRepositoryImpl) ListByEmployee(ctx context.Context, companyID string, employeeID string) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY issued_on DESC, created_at DESC
	`, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// UpdateActive implements loan.LoanRepository.
func (r *loanRepositoryImpl) UpdateActive(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	updated, err := scanLoan(q.QueryRow(ctx, `
		UPDATE loans
		SET amount = $3, installment_amount = $4, issued_on = $5, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'active'
		RETURNING `+loanColumns,
		l.ID, l.CompanyID, l.Amount, l.InstallmentAmount, l.IssuedOn,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrNoActiveLoan
		}
		return loan.Loan{}, fmt.Errorf("failed to update loan %s: %w", l.ID, err)
	}
	return updated, nil
}

// Close implements loan.LoanRepository.
func (r *loanRepositoryImpl) Close(ctx context.Context, id string, companyID string) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	closed, err := scanLoan(q.QueryRow(ctx, `
		UPDATE loans
		SET status = 'closed', closed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND status = 'active'
		RETURNING `+loanColumns,
		id, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loan.Loan{}, loan.ErrLoanAlreadyClosed
		}
		return loan.Loan{}, fmt.Errorf("failed to close loan %s: %w", id, err)
	}
	return closed, nil
}
