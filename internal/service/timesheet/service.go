package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/opsdesk/payroll-backend-go/internal/service/earnings"
)

type TimesheetServiceImpl struct {
	txManager     database.TxManager
	timesheetRepo timesheet.TimesheetRepository
	employeeRepo  employee.EmployeeRepository
	calculator    *earnings.Calculator
}

func NewTimesheetService(
	txManager database.TxManager,
	timesheetRepo timesheet.TimesheetRepository,
	employeeRepo employee.EmployeeRepository,
	calculator *earnings.Calculator,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		txManager:     txManager,
		timesheetRepo: timesheetRepo,
		employeeRepo:  employeeRepo,
		calculator:    calculator,
	}
}

// OpenPeriod pre-populates a blank row for every day in the period that has
// no row yet. Existing rows are left untouched.
func (s *TimesheetServiceImpl) OpenPeriod(ctx context.Context, req timesheet.OpenPeriodRequest) (timesheet.OpenPeriodResponse, error) {
	start, end, err := req.Validate()
	if err != nil {
		return timesheet.OpenPeriodResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return timesheet.OpenPeriodResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, actor.CompanyID); err != nil {
		return timesheet.OpenPeriodResponse{}, err
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	var created int
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.timesheetRepo.CreateMissing(ctx, actor.CompanyID, req.EmployeeID, dates)
		return err
	})
	if err != nil {
		return timesheet.OpenPeriodResponse{}, fmt.Errorf("failed to open timesheet period: %w", err)
	}

	slog.Info("Timesheet period opened",
		"company_id", actor.CompanyID,
		"employee_id", req.EmployeeID,
		"period_start", req.PeriodStart,
		"period_end", req.PeriodEnd,
		"created", created,
	)

	return timesheet.OpenPeriodResponse{
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Created:     created,
	}, nil
}

// SaveEntries upserts every valid row, each in its own transaction. Invalid
// rows are skipped and reported; they do not block the rest of the batch.
// Resigned or terminated employees get ErrEmployeeInactive.
func (s *TimesheetServiceImpl) SaveEntries(ctx context.Context, req timesheet.SaveEntriesRequest) (timesheet.SaveEntriesResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return timesheet.SaveEntriesResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, actor.CompanyID)
	if err != nil {
		return timesheet.SaveEntriesResponse{}, err
	}
	if err := emp.CheckActive(); err != nil {
		return timesheet.SaveEntriesResponse{}, err
	}

	rowErrs, invalid := req.Validate()
	resp := timesheet.SaveEntriesResponse{
		Saved:  []timesheet.EntryResponse{},
		Errors: rowErrs,
	}
	if resp.Errors == nil {
		resp.Errors = validator.ValidationErrors{}
	}

	for i := range req.Entries {
		if invalid[i] {
			continue
		}
		saved, err := s.saveEntry(ctx, req.Entries[i].ToEntry(actor.CompanyID, req.EmployeeID))
		if err != nil {
			return resp, fmt.Errorf("failed to save entry %s: %w", req.Entries[i].Date, err)
		}
		resp.Saved = append(resp.Saved, timesheet.NewEntryResponse(saved))
	}

	return resp, nil
}

// saveEntry serializes on the employee row first. A date with no row yet has
// nothing for LockByEmployeeDate to lock.
func (s *TimesheetServiceImpl) saveEntry(ctx context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	var saved timesheet.Entry
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.LockForUpdate(ctx, entry.EmployeeID, entry.CompanyID)
		if err != nil {
			return err
		}
		if err := emp.CheckActive(); err != nil {
			return err
		}

		var prev *timesheet.Entry
		existing, err := s.timesheetRepo.LockByEmployeeDate(ctx, entry.CompanyID, entry.EmployeeID, entry.Date)
		switch {
		case err == nil:
			prev = &existing
		case !errors.Is(err, timesheet.ErrEntryNotFound):
			return err
		}

		if prev != nil {
			entry.ID = prev.ID
			if prev.Status != timesheet.EntryStatusNew {
				if err := s.timesheetRepo.InsertRevision(ctx, *prev); err != nil {
					return fmt.Errorf("failed to archive revision: %w", err)
				}
			}
		} else {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			entry.ID = id.String()
		}
		entry.Status = timesheet.NextStatus(prev)

		saved, err = s.timesheetRepo.Upsert(ctx, entry)
		return err
	})
	return saved, err
}

func (s *TimesheetServiceImpl) GetEntry(ctx context.Context, employeeID string, date time.Time) (timesheet.EntryResponse, error) {
	actor, err := s.readerFor(ctx, employeeID)
	if err != nil {
		return timesheet.EntryResponse{}, err
	}

	entry, err := s.timesheetRepo.GetByEmployeeDate(ctx, actor.CompanyID, employeeID, date)
	if err != nil {
		return timesheet.EntryResponse{}, err
	}
	return timesheet.NewEntryResponse(entry), nil
}

func (s *TimesheetServiceImpl) ListEntries(ctx context.Context, req timesheet.ListEntriesRequest) ([]timesheet.EntryResponse, error) {
	filter, err := req.Validate()
	if err != nil {
		return nil, err
	}

	actor, err := s.readerFor(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	entries, err := s.timesheetRepo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]timesheet.EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, timesheet.NewEntryResponse(e))
	}
	return resp, nil
}

func (s *TimesheetServiceImpl) DailyEarnings(ctx context.Context, employeeID string, date time.Time) (timesheet.DailyEarningsResponse, error) {
	actor, err := s.readerFor(ctx, employeeID)
	if err != nil {
		return timesheet.DailyEarningsResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, actor.CompanyID)
	if err != nil {
		return timesheet.DailyEarningsResponse{}, err
	}

	entry, err := s.timesheetRepo.GetByEmployeeDate(ctx, actor.CompanyID, employeeID, date)
	if err != nil {
		return timesheet.DailyEarningsResponse{}, err
	}

	return timesheet.DailyEarningsResponse{
		EmployeeID:    employeeID,
		Date:          date.Format(validator.DateLayout),
		BillableHours: s.calculator.BillableHours(entry, emp).Round(2),
		HourlyRate:    s.calculator.HourlyRate(emp).Round(2),
		Earnings:      s.calculator.DailyEarnings(entry, emp),
	}, nil
}

// readerFor resolves the caller and checks they may see employeeID's records.
func (s *TimesheetServiceImpl) readerFor(ctx context.Context, employeeID string) (user.Actor, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if !actor.CanViewEmployee(employeeID) {
		return user.Actor{}, user.ErrInsufficientPermissions
	}
	return actor, nil
}
