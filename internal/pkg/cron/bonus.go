package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
)

// BonusJobs accrues attendance bonus for the previous calendar month. The
// ledger rejects a second attendance accrual for the same period, so every
// tick after the first in a month is a no-op.
type BonusJobs struct {
	employeeRepo employee.EmployeeRepository
	bonusService bonus.BonusService
	interval     time.Duration
	now          func() time.Time
}

func NewBonusJobs(employeeRepo employee.EmployeeRepository, bonusService bonus.BonusService, interval time.Duration) *BonusJobs {
	return &BonusJobs{
		employeeRepo: employeeRepo,
		bonusService: bonusService,
		interval:     interval,
		now:          time.Now,
	}
}

func (j *BonusJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("accrue_monthly_attendance_bonus", j.interval, j.AccruePreviousMonth)
}

// PreviousMonth returns the first and last day of the month before now, in UTC.
func PreviousMonth(now time.Time) (time.Time, time.Time) {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := firstOfThisMonth.AddDate(0, -1, 0)
	end := firstOfThisMonth.AddDate(0, 0, -1)
	return start, end
}

func (j *BonusJobs) AccruePreviousMonth(ctx context.Context) error {
	start, end := PreviousMonth(j.now().UTC())

	companyIDs, err := j.employeeRepo.ListCompanyIDsWithActiveEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	var errs []error
	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result, err := j.bonusService.AccruePeriod(ctx, companyID, start, end)
		if err != nil {
			slog.Error("Cron: bonus accrual failed", "company_id", companyID, "error", err)
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}
		if result.Accrued > 0 {
			slog.Info("Cron: bonus accrued", "company_id", companyID, "accrued", result.Accrued, "period_start", result.PeriodStart)
		}
	}
	return errors.Join(errs...)
}
