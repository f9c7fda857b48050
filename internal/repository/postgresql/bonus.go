package postgresql

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
)

type bonusRepositoryImpl struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) bonus.BonusRepository {
	return &bonusRepositoryImpl{db: db}
}

// Totals implements bonus.BonusRepository.
func (r *bonusRepositoryImpl) Totals(ctx context.Context, companyID string, employeeID string) (bonus.Totals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM bonus_accruals WHERE company_id = $1 AND employee_id = $2),
			(SELECT COALESCE(SUM(amount), 0) FROM bonus_withdrawals WHERE company_id = $1 AND employee_id = $2)
	`

	var totals bonus.Totals
	if err := q.QueryRow(ctx, query, companyID, employeeID).Scan(&totals.Accrued, &totals.Withdrawn); err != nil {
		return bonus.Totals{}, fmt.Errorf("failed to sum bonus ledger: %w", err)
	}
	return totals, nil
}

// InsertAccrual implements bonus.BonusRepository.
func (r *bonusRepositoryImpl) InsertAccrual(ctx context.Context, accrual bonus.Accrual) (bonus.Accrual, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bonus_accruals (
			id, company_id, employee_id, amount, bonus_days,
			period_start, period_end, accrued_on, source, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		accrual.ID, accrual.CompanyID, accrual.EmployeeID, accrual.Amount, accrual.BonusDays,
		accrual.PeriodStart, accrual.PeriodEnd, accrual.AccruedOn, accrual.Source, accrual.Notes,
	).Scan(&accrual.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_bonus_accruals_attendance_period") {
			return bonus.Accrual{}, bonus.ErrAlreadyAccrued
		}
		return bonus.Accrual{}, fmt.Errorf("failed to insert bonus accrual: %w", err)
	}
	return accrual, nil
}

// InsertWithdrawal implements bonus.BonusRepository.
func (r *bonusRepositoryImpl) InsertWithdrawal(ctx context.Context, withdrawal bonus.Withdrawal) (bonus.Withdrawal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bonus_withdrawals (
			id, company_id, employee_id, amount, withdrawn_on, notes, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		withdrawal.ID, withdrawal.CompanyID, withdrawal.EmployeeID, withdrawal.Amount,
		withdrawal.WithdrawnOn, withdrawal.Notes, withdrawal.CreatedBy,
	).Scan(&withdrawal.CreatedAt)
	if err != nil {
		return bonus.Withdrawal{}, fmt.Errorf("failed to insert bonus withdrawal: %w", err)
	}
	return withdrawal, nil
}

func historyPredicate(companyID string, dateColumn string, filter bonus.HistoryFilter) sq.And {
	and := sq.And{sq.Eq{"company_id": companyID}}
	if filter.EmployeeID != "" {
		and = append(and, sq.Eq{"employee_id": filter.EmployeeID})
	}
	if filter.From != nil {
		and = append(and, sq.GtOrEq{dateColumn: *filter.From})
	}
	if filter.To != nil {
		and = append(and, sq.LtOrEq{dateColumn: *filter.To})
	}
	return and
}

// ListAccruals implements bonus.BonusRepository.
func (r *bonusRepositoryImpl) ListAccruals(ctx context.Context, companyID string, filter bonus.HistoryFilter) ([]bonus.Accrual, error) {
	q := GetQuerier(ctx, r.db)

	builder := sq.Select(
		"id", "company_id", "employee_id", "amount", "bonus_days",
		"period_start", "period_end", "accrued_on", "source", "notes", "created_at",
	).
		From("bonus_accruals").
		Where(historyPredicate(companyID, "accrued_on", filter)).
		OrderBy("accrued_on DESC", "created_at DESC").
		PlaceholderFormat(sq.Dollar)
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus accruals: %w", err)
	}
	defer rows.Close()

	var accruals []bonus.Accrual
	for rows.Next() {
		var a bonus.Accrual
		if err := rows.Scan(
			&a.ID, &a.CompanyID, &a.EmployeeID, &a.Amount, &a.BonusDays,
			&a.PeriodStart, &a.PeriodEnd, &a.AccruedOn, &a.Source, &a.Notes, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		accruals = append(accruals, a)
	}
	return accruals, rows.Err()
}

// ListWithdrawals implements bonus.BonusRepository.
func (r *bonusRepositoryImpl) ListWithdrawals(ctx context.Context, companyID string, filter bonus.HistoryFilter) ([]bonus.Withdrawal, error) {
	q := GetQuerier(ctx, r.db)

	builder := sq.Select(
		"id", "company_id", "employee_id", "amount", "withdrawn_on", "notes", "created_by", "created_at",
	).
		From("bonus_withdrawals").
		Where(historyPredicate(companyID, "withdrawn_on", filter)).
		OrderBy("withdrawn_on DESC", "created_at DESC").
		PlaceholderFormat(sq.Dollar)
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []bonus.Withdrawal
	for rows.Next() {
		var w bonus.Withdrawal
		if err := rows.Scan(
			&w.ID, &w.CompanyID, &w.EmployeeID, &w.Amount, &w.WithdrawnOn, &w.Notes, &w.CreatedBy, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// AccrualExists implements bonus.BonusRepository.
func (r *bonusRepositoryImpl) AccrualExists(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bonus_accruals
			WHERE employee_id = $1 AND period_start = $2 AND period_end = $3 AND source = $4
		)
	`, employeeID, periodStart, periodEnd, bonus.AccrualSourceAttendance).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bonus accrual: %w", err)
	}
	return exists, nil
}
