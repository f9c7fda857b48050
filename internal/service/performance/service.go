package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/performance"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/opsdesk/payroll-backend-go/internal/service/earnings"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type Settings struct {
	WeeklyOffDay time.Weekday
	Workers      int
}

type PerformanceServiceImpl struct {
	employeeRepo  employee.EmployeeRepository
	timesheetRepo timesheet.TimesheetRepository
	calculator    *earnings.Calculator
	scorer        *Scorer
	settings      Settings
	flight        singleflight.Group
}

func NewPerformanceService(
	employeeRepo employee.EmployeeRepository,
	timesheetRepo timesheet.TimesheetRepository,
	calculator *earnings.Calculator,
	scorer *Scorer,
	settings Settings,
) performance.PerformanceService {
	if settings.Workers <= 0 {
		settings.Workers = 4
	}
	return &PerformanceServiceImpl{
		employeeRepo:  employeeRepo,
		timesheetRepo: timesheetRepo,
		calculator:    calculator,
		scorer:        scorer,
		settings:      settings,
	}
}

func (s *PerformanceServiceImpl) ComputeScore(ctx context.Context, employeeID string, start, end time.Time) (performance.ScoreRecord, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return performance.ScoreRecord{}, err
	}
	if !actor.CanViewEmployee(employeeID) {
		return performance.ScoreRecord{}, user.ErrInsufficientPermissions
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, actor.CompanyID)
	if err != nil {
		return performance.ScoreRecord{}, err
	}
	return s.score(ctx, actor.CompanyID, emp, start, end)
}

// ComputeLeaderboard scores every active employee. Concurrent requests for
// the same company and period share one computation, which is detached from
// any single caller's cancellation. A cancelled caller stops waiting and gets
// its context error; the others still receive the result.
func (s *PerformanceServiceImpl) ComputeLeaderboard(ctx context.Context, start, end time.Time) (performance.Leaderboard, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return performance.Leaderboard{}, err
	}

	key := fmt.Sprintf("%s:%s:%s", actor.CompanyID, start.Format(validator.DateLayout), end.Format(validator.DateLayout))
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		return s.computeLeaderboard(context.WithoutCancel(ctx), actor.CompanyID, start, end)
	})
	select {
	case <-ctx.Done():
		return performance.Leaderboard{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return performance.Leaderboard{}, res.Err
		}
		return res.Val.(performance.Leaderboard), nil
	}
}

func (s *PerformanceServiceImpl) computeLeaderboard(ctx context.Context, companyID string, start, end time.Time) (performance.Leaderboard, error) {
	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return performance.Leaderboard{}, err
	}

	records := make([]performance.ScoreRecord, len(employees))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.Workers)
	for i, emp := range employees {
		g.Go(func() error {
			rec, err := s.score(gCtx, companyID, emp, start, end)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return performance.Leaderboard{}, err
	}

	lb := s.scorer.Rank(records)
	lb.PeriodStart, lb.PeriodEnd = start, end
	return lb, nil
}

func (s *PerformanceServiceImpl) score(ctx context.Context, companyID string, emp employee.Employee, start, end time.Time) (performance.ScoreRecord, error) {
	entries, err := s.timesheetRepo.List(ctx, companyID, timesheet.EntryFilter{
		EmployeeID: emp.ID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return performance.ScoreRecord{}, err
	}
	agg := s.calculator.Summarize(emp, entries, start, end, s.settings.WeeklyOffDay).Attendance
	return s.scorer.Score(emp, agg), nil
}
