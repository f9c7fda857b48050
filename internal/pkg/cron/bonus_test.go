package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	companies []string
}

func (f *fakeEmployeeRepo) ListCompanyIDsWithActiveEmployees(context.Context) ([]string, error) {
	return f.companies, nil
}

type call struct {
	companyID  string
	start, end time.Time
}

type fakeBonusService struct {
	bonus.BonusService
	calls []call
	fail  map[string]bool
}

func (f *fakeBonusService) AccruePeriod(_ context.Context, companyID string, start, end time.Time) (bonus.AccrualRunResponse, error) {
	f.calls = append(f.calls, call{companyID, start, end})
	if f.fail[companyID] {
		return bonus.AccrualRunResponse{}, errors.New("boom")
	}
	return bonus.AccrualRunResponse{Accrued: 1}, nil
}

func TestPreviousMonth(t *testing.T) {
	start, end := PreviousMonth(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)

	start, end = PreviousMonth(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestAccruePreviousMonth(t *testing.T) {
	svc := &fakeBonusService{fail: map[string]bool{"c2": true}}
	jobs := NewBonusJobs(&fakeEmployeeRepo{companies: []string{"c1", "c2", "c3"}}, svc, time.Hour)
	jobs.now = func() time.Time { return time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC) }

	err := jobs.AccruePreviousMonth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company c2")

	require.Len(t, svc.calls, 3)
	for _, c := range svc.calls {
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c.start)
		assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), c.end)
	}
}

func TestSchedulerRunOnce(t *testing.T) {
	s := NewScheduler(context.Background())
	runs := 0
	s.AddJob("count", time.Hour, func(context.Context) error {
		runs++
		return nil
	})
	s.RunOnce(context.Background())
	s.RunOnce(context.Background())
	assert.Equal(t, 2, runs)
}
