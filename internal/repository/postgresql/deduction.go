package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/opsdesk/payroll-backend-go/internal/domain/payroll"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
)

type deductionRepositoryImpl struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) payroll.DeductionRepository {
	return &deductionRepositoryImpl{db: db}
}

// Create implements payroll.DeductionRepository.
func (r *deductionRepositoryImpl) Create(ctx context.Context, d payroll.Deduction) (payroll.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_deductions (id, company_id, employee_id, kind, amount, period_start, period_end, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		d.ID, d.CompanyID, d.EmployeeID, d.Kind, d.Amount, d.PeriodStart, d.PeriodEnd, d.Notes,
	).Scan(&d.CreatedAt)
	if err != nil {
		return payroll.Deduction{}, fmt.Errorf("failed to create deduction: %w", err)
	}
	return d, nil
}

// List implements payroll.DeductionRepository.
func (r *deductionRepositoryImpl) List(ctx context.Context, companyID string, filter payroll.DeductionFilter) ([]payroll.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	and := sq.And{sq.Eq{"company_id": companyID}}
	if filter.EmployeeID != "" {
		and = append(and, sq.Eq{"employee_id": filter.EmployeeID})
	}
	// overlap: the row ends on or after Start and begins on or before End
	if filter.Start != nil {
		and = append(and, sq.GtOrEq{"period_end": *filter.Start})
	}
	if filter.End != nil {
		and = append(and, sq.LtOrEq{"period_start": *filter.End})
	}
	if filter.Kind != nil {
		and = append(and, sq.Eq{"kind": *filter.Kind})
	}

	query, args, err := sq.Select(
		"id", "company_id", "employee_id", "kind", "amount", "period_start", "period_end", "notes", "created_at",
	).
		From("payroll_deductions").
		Where(and).
		OrderBy("period_start", "created_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	var deductions []payroll.Deduction
	for rows.Next() {
		var d payroll.Deduction
		if err := rows.Scan(
			&d.ID, &d.CompanyID, &d.EmployeeID, &d.Kind, &d.Amount, &d.PeriodStart, &d.PeriodEnd, &d.Notes, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}
