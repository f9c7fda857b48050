package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/domain/payroll"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/service/earnings"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Settings struct {
	WeeklyOffDay time.Weekday
	// Workers bounds how many employee summaries are computed at once.
	Workers int
}

type PayrollServiceImpl struct {
	employeeRepo  employee.EmployeeRepository
	timesheetRepo timesheet.TimesheetRepository
	loanRepo      loan.LoanRepository
	deductionRepo payroll.DeductionRepository
	calculator    *earnings.Calculator
	settings      Settings
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	timesheetRepo timesheet.TimesheetRepository,
	loanRepo loan.LoanRepository,
	deductionRepo payroll.DeductionRepository,
	calculator *earnings.Calculator,
	settings Settings,
) payroll.PayrollService {
	if settings.Workers <= 0 {
		settings.Workers = 4
	}
	return &PayrollServiceImpl{
		employeeRepo:  employeeRepo,
		timesheetRepo: timesheetRepo,
		loanRepo:      loanRepo,
		deductionRepo: deductionRepo,
		calculator:    calculator,
		settings:      settings,
	}
}

func (s *PayrollServiceImpl) ComputePeriodSummary(ctx context.Context, employeeID string, start, end time.Time) (payroll.PeriodSummary, error) {
	actor, err := readerFor(ctx, employeeID)
	if err != nil {
		return payroll.PeriodSummary{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, actor.CompanyID)
	if err != nil {
		return payroll.PeriodSummary{}, err
	}

	return s.summarize(ctx, actor.CompanyID, emp, start, end)
}

// ComputeCompanySummaries computes every active employee's summary
// concurrently. Results keep the repository's employee order.
func (s *PayrollServiceImpl) ComputeCompanySummaries(ctx context.Context, start, end time.Time) ([]payroll.PeriodSummary, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsManager() {
		return nil, user.ErrManagerAccessRequired
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	summaries := make([]payroll.PeriodSummary, len(employees))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.Workers)
	for i, emp := range employees {
		g.Go(func() error {
			summary, err := s.summarize(gCtx, actor.CompanyID, emp, start, end)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (s *PayrollServiceImpl) summarize(ctx context.Context, companyID string, emp employee.Employee, start, end time.Time) (payroll.PeriodSummary, error) {
	entries, err := s.timesheetRepo.List(ctx, companyID, timesheet.EntryFilter{
		EmployeeID: emp.ID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return payroll.PeriodSummary{}, fmt.Errorf("failed to load timesheet: %w", err)
	}

	loans, err := s.loanRepo.ListByEmployee(ctx, companyID, emp.ID)
	if err != nil {
		return payroll.PeriodSummary{}, fmt.Errorf("failed to load loans: %w", err)
	}

	deductions, err := s.deductionRepo.List(ctx, companyID, payroll.DeductionFilter{
		EmployeeID: emp.ID,
		Start:      &start,
		End:        &end,
	})
	if err != nil {
		return payroll.PeriodSummary{}, fmt.Errorf("failed to load deductions: %w", err)
	}

	period := s.calculator.Summarize(emp, entries, start, end, s.settings.WeeklyOffDay)
	summary := payroll.PeriodSummary{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		PeriodStart:  start,
		PeriodEnd:    end,
		GrossPay:     period.Gross,
		Attendance:   period.Attendance,
	}
	for _, d := range period.Days {
		summary.DailyEarnings = append(summary.DailyEarnings, payroll.DailyEarning{
			Date:          d.Date,
			DayType:       d.DayType,
			BillableHours: decimal.NewFromInt(int64(d.BillableMinutes)).Div(decimal.NewFromInt(60)).Round(2),
			Earnings:      d.Earnings,
		})
	}
	if !s.calculator.HourlyRate(emp).IsPositive() {
		summary.Warnings = append(summary.Warnings, "employee has no usable pay rate configured")
	}

	AggregateDeductions(&summary, loans, deductions)
	if summary.OverDeducted {
		slog.Warn("Payroll period over-deducted",
			"company_id", companyID,
			"employee_id", emp.ID,
			"gross", summary.GrossPay.String(),
			"deductions", summary.TotalDeductions.String(),
		)
	}
	return summary, nil
}

func (s *PayrollServiceImpl) CreateDeduction(ctx context.Context, req payroll.CreateDeductionRequest) (payroll.DeductionResponse, error) {
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return payroll.DeductionResponse{}, payroll.ErrInvalidAmount
	}
	start, end, err := req.Validate()
	if err != nil {
		return payroll.DeductionResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return payroll.DeductionResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, actor.CompanyID); err != nil {
		return payroll.DeductionResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.DeductionResponse{}, err
	}

	created, err := s.deductionRepo.Create(ctx, payroll.Deduction{
		ID:          id.String(),
		CompanyID:   actor.CompanyID,
		EmployeeID:  req.EmployeeID,
		Kind:        payroll.DeductionKind(req.Kind),
		Amount:      req.Amount,
		PeriodStart: start,
		PeriodEnd:   end,
		Notes:       req.Notes,
	})
	if err != nil {
		return payroll.DeductionResponse{}, err
	}
	return payroll.NewDeductionResponse(created), nil
}

func (s *PayrollServiceImpl) ListDeductions(ctx context.Context, employeeID string, start, end *time.Time) ([]payroll.DeductionResponse, error) {
	actor, err := readerFor(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	rows, err := s.deductionRepo.List(ctx, actor.CompanyID, payroll.DeductionFilter{
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]payroll.DeductionResponse, 0, len(rows))
	for _, d := range rows {
		resp = append(resp, payroll.NewDeductionResponse(d))
	}
	return resp, nil
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
