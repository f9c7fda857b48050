package bonus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/database"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/opsdesk/payroll-backend-go/internal/service/earnings"
	"github.com/shopspring/decimal"
)

type Settings struct {
	BonusPerDay  decimal.Decimal
	WeeklyOffDay time.Weekday
}

type BonusServiceImpl struct {
	txManager     database.TxManager
	bonusRepo     bonus.BonusRepository
	employeeRepo  employee.EmployeeRepository
	timesheetRepo timesheet.TimesheetRepository
	calculator    *earnings.Calculator
	settings      Settings
}

func NewBonusService(
	txManager database.TxManager,
	bonusRepo bonus.BonusRepository,
	employeeRepo employee.EmployeeRepository,
	timesheetRepo timesheet.TimesheetRepository,
	calculator *earnings.Calculator,
	settings Settings,
) bonus.BonusService {
	return &BonusServiceImpl{
		txManager:     txManager,
		bonusRepo:     bonusRepo,
		employeeRepo:  employeeRepo,
		timesheetRepo: timesheetRepo,
		calculator:    calculator,
		settings:      settings,
	}
}

func (s *BonusServiceImpl) Accrue(ctx context.Context, employeeID string, amount decimal.Decimal, date time.Time) (bonus.Accrual, error) {
	if !amount.IsPositive() {
		return bonus.Accrual{}, bonus.ErrInvalidAmount
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return bonus.Accrual{}, err
	}

	return s.appendAccrual(ctx, bonus.Accrual{
		CompanyID:  actor.CompanyID,
		EmployeeID: employeeID,
		Amount:     amount,
		AccruedOn:  date,
		Source:     bonus.AccrualSourceManual,
	})
}

func (s *BonusServiceImpl) ManualAccrue(ctx context.Context, req bonus.ManualAccrueRequest) (bonus.AccrualResponse, error) {
	if err := req.Validate(); err != nil {
		return bonus.AccrualResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return bonus.AccrualResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	accrual, err := s.appendAccrual(ctx, bonus.Accrual{
		CompanyID:  actor.CompanyID,
		EmployeeID: req.EmployeeID,
		Amount:     req.Amount,
		AccruedOn:  date,
		Source:     bonus.AccrualSourceManual,
		Notes:      req.Notes,
	})
	if err != nil {
		return bonus.AccrualResponse{}, err
	}

	slog.Info("Manual bonus accrued",
		"company_id", actor.CompanyID,
		"employee_id", req.EmployeeID,
		"amount", req.Amount.String(),
		"by", actor.UserID,
	)
	return bonus.NewAccrualResponse(accrual), nil
}

// appendAccrual inserts one credit under the employee lock. Attendance
// accruals re-check the period inside the lock so a period is credited once.
func (s *BonusServiceImpl) appendAccrual(ctx context.Context, accrual bonus.Accrual) (bonus.Accrual, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return bonus.Accrual{}, err
	}
	accrual.ID = id.String()

	var created bonus.Accrual
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.LockForUpdate(ctx, accrual.EmployeeID, accrual.CompanyID)
		if err != nil {
			return err
		}
		if err := emp.CheckActive(); err != nil {
			return err
		}

		if accrual.Source == bonus.AccrualSourceAttendance && accrual.PeriodStart != nil && accrual.PeriodEnd != nil {
			exists, err := s.bonusRepo.AccrualExists(ctx, accrual.EmployeeID, *accrual.PeriodStart, *accrual.PeriodEnd)
			if err != nil {
				return err
			}
			if exists {
				return bonus.ErrAlreadyAccrued
			}
		}

		created, err = s.bonusRepo.InsertAccrual(ctx, accrual)
		return err
	})
	return created, err
}

// AccruePeriod credits every active employee of the company with
// bonusDays x BonusPerDay for the period. Employees already credited for the
// same period, or with no bonus days, are skipped.
func (s *BonusServiceImpl) AccruePeriod(ctx context.Context, companyID string, start, end time.Time) (bonus.AccrualRunResponse, error) {
	resp := bonus.AccrualRunResponse{
		PeriodStart: start.Format(validator.DateLayout),
		PeriodEnd:   end.Format(validator.DateLayout),
		TotalAmount: decimal.Zero,
	}

	if !s.settings.BonusPerDay.IsPositive() {
		slog.Warn("Bonus accrual skipped, bonus per day is not configured", "company_id", companyID)
		return resp, nil
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return resp, fmt.Errorf("failed to load employees: %w", err)
	}

	for _, emp := range employees {
		exists, err := s.bonusRepo.AccrualExists(ctx, emp.ID, start, end)
		if err != nil {
			return resp, err
		}
		if exists {
			resp.Skipped++
			continue
		}

		entries, err := s.timesheetRepo.List(ctx, companyID, timesheet.EntryFilter{
			EmployeeID: emp.ID,
			Start:      start,
			End:        end,
		})
		if err != nil {
			return resp, fmt.Errorf("failed to load timesheet for %s: %w", emp.ID, err)
		}

		agg := s.calculator.Summarize(emp, entries, start, end, s.settings.WeeklyOffDay).Attendance
		if agg.BonusDays == 0 {
			resp.Skipped++
			continue
		}

		amount := s.settings.BonusPerDay.Mul(decimal.NewFromInt(int64(agg.BonusDays)))
		periodStart, periodEnd := start, end
		_, err = s.appendAccrual(ctx, bonus.Accrual{
			CompanyID:   companyID,
			EmployeeID:  emp.ID,
			Amount:      amount,
			BonusDays:   agg.BonusDays,
			PeriodStart: &periodStart,
			PeriodEnd:   &periodEnd,
			AccruedOn:   end,
			Source:      bonus.AccrualSourceAttendance,
		})
		if errors.Is(err, bonus.ErrAlreadyAccrued) {
			resp.Skipped++
			continue
		}
		if err != nil {
			return resp, fmt.Errorf("failed to accrue bonus for %s: %w", emp.ID, err)
		}

		resp.Accrued++
		resp.TotalAmount = resp.TotalAmount.Add(amount)
	}

	slog.Info("Bonus accrual completed",
		"company_id", companyID,
		"period_start", resp.PeriodStart,
		"period_end", resp.PeriodEnd,
		"accrued", resp.Accrued,
		"skipped", resp.Skipped,
		"total", resp.TotalAmount.String(),
	)
	return resp, nil
}

func (s *BonusServiceImpl) GetBalance(ctx context.Context, employeeID string) (bonus.BalanceResponse, error) {
	actor, err := readerFor(ctx, employeeID)
	if err != nil {
		return bonus.BalanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID, actor.CompanyID); err != nil {
		return bonus.BalanceResponse{}, err
	}

	totals, err := s.bonusRepo.Totals(ctx, actor.CompanyID, employeeID)
	if err != nil {
		return bonus.BalanceResponse{}, err
	}

	balance, err := checkedBalance(actor.CompanyID, employeeID, totals)
	if err != nil {
		return bonus.BalanceResponse{}, err
	}

	return bonus.BalanceResponse{
		EmployeeID:     employeeID,
		TotalAccrued:   totals.Accrued,
		TotalWithdrawn: totals.Withdrawn,
		Balance:        balance,
	}, nil
}

// Withdraw appends a withdrawal if the derived balance covers it. The
// balance is read and the row written under the employee row lock.
func (s *BonusServiceImpl) Withdraw(ctx context.Context, req bonus.WithdrawRequest) (bonus.WithdrawalResponse, error) {
	if !req.Amount.IsPositive() {
		return bonus.WithdrawalResponse{}, bonus.ErrInvalidAmount
	}
	if err := req.Validate(); err != nil {
		return bonus.WithdrawalResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return bonus.WithdrawalResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	id, err := uuid.NewV7()
	if err != nil {
		return bonus.WithdrawalResponse{}, err
	}

	var resp bonus.WithdrawalResponse
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.LockForUpdate(ctx, req.EmployeeID, actor.CompanyID)
		if err != nil {
			return err
		}
		if err := emp.CheckActive(); err != nil {
			return err
		}

		totals, err := s.bonusRepo.Totals(ctx, actor.CompanyID, req.EmployeeID)
		if err != nil {
			return err
		}
		balance, err := checkedBalance(actor.CompanyID, req.EmployeeID, totals)
		if err != nil {
			return err
		}
		if req.Amount.GreaterThan(balance) {
			return fmt.Errorf("%w: balance %s, requested %s", bonus.ErrInsufficientBalance, balance.StringFixed(2), req.Amount.StringFixed(2))
		}

		var createdBy *string
		if actor.UserID != "" {
			createdBy = &actor.UserID
		}
		withdrawal, err := s.bonusRepo.InsertWithdrawal(ctx, bonus.Withdrawal{
			ID:          id.String(),
			CompanyID:   actor.CompanyID,
			EmployeeID:  req.EmployeeID,
			Amount:      req.Amount,
			WithdrawnOn: date,
			Notes:       req.Notes,
			CreatedBy:   createdBy,
		})
		if err != nil {
			return err
		}

		resp = bonus.NewWithdrawalResponse(withdrawal)
		resp.BalanceLeft = balance.Sub(req.Amount)
		return nil
	})
	if err != nil {
		return bonus.WithdrawalResponse{}, err
	}

	slog.Info("Bonus withdrawn",
		"company_id", actor.CompanyID,
		"employee_id", req.EmployeeID,
		"amount", req.Amount.String(),
		"balance_after", resp.BalanceLeft.String(),
	)
	return resp, nil
}

func (s *BonusServiceImpl) ListWithdrawals(ctx context.Context, employeeID string) ([]bonus.WithdrawalResponse, error) {
	actor, err := readerFor(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	rows, err := s.bonusRepo.ListWithdrawals(ctx, actor.CompanyID, bonus.HistoryFilter{EmployeeID: employeeID})
	if err != nil {
		return nil, err
	}

	resp := make([]bonus.WithdrawalResponse, 0, len(rows))
	for _, w := range rows {
		resp = append(resp, bonus.NewWithdrawalResponse(w))
	}
	return resp, nil
}

func (s *BonusServiceImpl) ListAccruals(ctx context.Context, employeeID string) ([]bonus.AccrualResponse, error) {
	actor, err := readerFor(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	rows, err := s.bonusRepo.ListAccruals(ctx, actor.CompanyID, bonus.HistoryFilter{EmployeeID: employeeID})
	if err != nil {
		return nil, err
	}

	resp := make([]bonus.AccrualResponse, 0, len(rows))
	for _, a := range rows {
		resp = append(resp, bonus.NewAccrualResponse(a))
	}
	return resp, nil
}

// checkedBalance derives the balance and refuses to clamp a negative one.
func checkedBalance(companyID, employeeID string, totals bonus.Totals) (decimal.Decimal, error) {
	balance := totals.Balance()
	if balance.IsNegative() {
		slog.Error("Bonus ledger balance is negative",
			"company_id", companyID,
			"employee_id", employeeID,
			"accrued", totals.Accrued.String(),
			"withdrawn", totals.Withdrawn.String(),
		)
		return decimal.Zero, fmt.Errorf("%w: employee %s balance %s", bonus.ErrInvariantViolation, employeeID, balance.String())
	}
	return balance, nil
}

func readerFor(ctx context.Context, employeeID string) (user.Actor, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	if !actor.CanViewEmployee(employeeID) {
		return user.Actor{}, user.ErrInsufficientPermissions
	}
	return actor, nil
}
