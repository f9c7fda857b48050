package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
)

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

var timesheetColumns = []string{
	"id", "company_id", "employee_id", "entry_date",
	"to_char(clock_in, 'HH24:MI')", "to_char(clock_out, 'HH24:MI')",
	"break_minutes", "day_type", "status", "notes", "created_at", "updated_at",
}

func scanEntry(row pgx.Row) (timesheet.Entry, error) {
	var e timesheet.Entry
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.Date,
		&e.ClockIn, &e.ClockOut,
		&e.BreakMinutes, &e.DayType, &e.Status, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Upsert implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Upsert(ctx context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheet_entries (
			id, company_id, employee_id, entry_date, clock_in, clock_out,
			break_minutes, day_type, status, notes
		) VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8, $9, $10)
		ON CONFLICT (employee_id, entry_date) DO UPDATE SET
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			break_minutes = EXCLUDED.break_minutes,
			day_type = EXCLUDED.day_type,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id, company_id, employee_id, entry_date,
			to_char(clock_in, 'HH24:MI'), to_char(clock_out, 'HH24:MI'),
			break_minutes, day_type, status, notes, created_at, updated_at
	`

	saved, err := scanEntry(q.QueryRow(ctx, query,
		entry.ID, entry.CompanyID, entry.EmployeeID, entry.Date, entry.ClockIn, entry.ClockOut,
		entry.BreakMinutes, entry.DayType, entry.Status, entry.Notes,
	))
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("failed to upsert timesheet entry: %w", err)
	}
	return saved, nil
}

func (r *timesheetRepositoryImpl) getByEmployeeDate(ctx context.Context, companyID, employeeID string, date time.Time, lock bool) (timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	builder := sq.Select(timesheetColumns...).
		From("timesheet_entries").
		Where(sq.Eq{"company_id": companyID, "employee_id": employeeID, "entry_date": date}).
		PlaceholderFormat(sq.Dollar)
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("failed to build query: %w", err)
	}

	entry, err := scanEntry(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Entry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.Entry{}, err
	}
	return entry, nil
}

// GetByEmployeeDate implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByEmployeeDate(ctx context.Context, companyID string, employeeID string, date time.Time) (timesheet.Entry, error) {
	return r.getByEmployeeDate(ctx, companyID, employeeID, date, false)
}

// LockByEmployeeDate implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) LockByEmployeeDate(ctx context.Context, companyID string, employeeID string, date time.Time) (timesheet.Entry, error) {
	return r.getByEmployeeDate(ctx, companyID, employeeID, date, true)
}

// List implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) List(ctx context.Context, companyID string, filter timesheet.EntryFilter) ([]timesheet.Entry, error) {
	q := GetQuerier(ctx, r.db)

	and := sq.And{sq.Eq{"company_id": companyID}}
	if filter.EmployeeID != "" {
		and = append(and, sq.Eq{"employee_id": filter.EmployeeID})
	}
	if !filter.Start.IsZero() {
		and = append(and, sq.GtOrEq{"entry_date": filter.Start})
	}
	if !filter.End.IsZero() {
		and = append(and, sq.LtOrEq{"entry_date": filter.End})
	}
	if filter.DayType != nil {
		and = append(and, sq.Eq{"day_type": *filter.DayType})
	}

	query, args, err := sq.Select(timesheetColumns...).
		From("timesheet_entries").
		Where(and).
		OrderBy("entry_date").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateMissing implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) CreateMissing(ctx context.Context, companyID string, employeeID string, dates []time.Time) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	builder := sq.Insert("timesheet_entries").
		Columns("id", "company_id", "employee_id", "entry_date", "day_type", "status").
		Suffix("ON CONFLICT (employee_id, entry_date) DO NOTHING").
		PlaceholderFormat(sq.Dollar)
	for _, d := range dates {
		id, err := newID()
		if err != nil {
			return 0, err
		}
		builder = builder.Values(id, companyID, employeeID, d, timesheet.DayTypeWork, timesheet.EntryStatusNew)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to pre-populate timesheet: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertRevision implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) InsertRevision(ctx context.Context, entry timesheet.Entry) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO timesheet_entry_revisions (
			entry_id, company_id, employee_id, entry_date, clock_in, clock_out,
			break_minutes, day_type, status, notes
		) VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8, $9, $10)
	`,
		entry.ID, entry.CompanyID, entry.EmployeeID, entry.Date, entry.ClockIn, entry.ClockOut,
		entry.BreakMinutes, entry.DayType, entry.Status, entry.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert timesheet revision: %w", err)
	}
	return nil
}
