package performance

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/service/earnings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyID = "company-1"

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
	listCalls atomic.Int32
	gate      chan struct{}
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, company string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, company string) ([]employee.Employee, error) {
	f.listCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	return f.employees, nil
}

type fakeTimesheetRepo struct {
	timesheet.TimesheetRepository
	entries map[string][]timesheet.Entry
}

func (f *fakeTimesheetRepo) List(ctx context.Context, company string, filter timesheet.EntryFilter) ([]timesheet.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.entries[filter.EmployeeID], nil
}

func strPtr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func punched(d int, in, out string) timesheet.Entry {
	return timesheet.Entry{Date: day(d), ClockIn: strPtr(in), ClockOut: strPtr(out), DayType: timesheet.DayTypeWork}
}

func authContext(t *testing.T, role user.Role, employeeID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	ctx, err := jwt.NewContext(context.Background(), ja, user.Actor{UserID: "user-1", CompanyID: companyID, EmployeeID: employeeID, Role: role})
	require.NoError(t, err)
	return ctx
}

func newTestService() (*PerformanceServiceImpl, *fakeEmployeeRepo) {
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", FullName: "Ana", Role: "Backend Developer", ShiftStart: strPtr("09:00"), ShiftEnd: strPtr("17:00")},
		{ID: "emp-2", FullName: "Budi", Role: "Cashier", ShiftStart: strPtr("09:00"), ShiftEnd: strPtr("17:00")},
		{ID: "emp-3", FullName: "Citra", Role: "Cashier", ShiftStart: strPtr("09:00"), ShiftEnd: strPtr("17:00")},
	}}
	// 2024-03-04..09 is Monday to Saturday: six working days.
	sheets := &fakeTimesheetRepo{entries: map[string][]timesheet.Entry{
		"emp-1": {punched(4, "08:00", "18:00"), punched(5, "08:00", "18:00"), punched(6, "08:00", "18:00"),
			punched(7, "08:00", "18:00"), punched(8, "08:00", "18:00"), punched(9, "08:00", "18:00")},
		"emp-2": {punched(4, "09:00", "17:00"), punched(5, "09:00", "17:00"), punched(6, "09:00", "17:00")},
		"emp-3": {punched(4, "09:00", "17:00"), punched(5, "09:00", "17:00"), punched(6, "09:00", "17:00")},
	}}
	svc := NewPerformanceService(employees, sheets, earnings.NewCalculator(),
		NewScorer([]string{"developer", "engineer"}),
		Settings{WeeklyOffDay: time.Sunday, Workers: 2},
	).(*PerformanceServiceImpl)
	return svc, employees
}

func TestComputeScore(t *testing.T) {
	svc, _ := newTestService()
	rec, err := svc.ComputeScore(authContext(t, user.RoleEmployee, "emp-2"), "emp-2", day(4), day(10))
	require.NoError(t, err)

	assert.Equal(t, 6, rec.TotalWorkingDays)
	assert.Equal(t, 3, rec.PresentDays)
	assert.Equal(t, 3, rec.AbsentDays)
	assert.Equal(t, "20", rec.AttendanceScore.String())
	assert.Equal(t, "26.67", rec.PerformanceScore.String())
	assert.Equal(t, "10", rec.BonusScore.String())
	assert.Equal(t, "56.67", rec.Total.String())

	_, err = svc.ComputeScore(authContext(t, user.RoleEmployee, "emp-2"), "emp-1", day(4), day(10))
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestComputeLeaderboard(t *testing.T) {
	svc, _ := newTestService()
	lb, err := svc.ComputeLeaderboard(authContext(t, user.RoleManager, ""), day(4), day(10))
	require.NoError(t, err)

	require.Len(t, lb.Records, 3)
	assert.Equal(t, "emp-1", lb.Records[0].EmployeeID)
	assert.Equal(t, "100", lb.Records[0].Total.String())
	// emp-2 and emp-3 tie on every score; ID decides.
	assert.Equal(t, "emp-2", lb.Records[1].EmployeeID)
	assert.Equal(t, "emp-3", lb.Records[2].EmployeeID)

	require.NotNil(t, lb.TopEligible)
	assert.Equal(t, "emp-2", lb.TopEligible.EmployeeID)
	assert.Equal(t, day(4), lb.PeriodStart)
}

func TestComputeLeaderboard_CollapsesConcurrentRequests(t *testing.T) {
	svc, employees := newTestService()
	employees.gate = make(chan struct{})
	ctx := authContext(t, user.RoleManager, "")

	var wg sync.WaitGroup
	results := make([]int, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lb, err := svc.ComputeLeaderboard(ctx, day(4), day(10))
			if err == nil {
				results[i] = len(lb.Records)
			}
		}()
	}

	require.Eventually(t, func() bool { return employees.listCalls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(employees.gate)
	wg.Wait()

	assert.Equal(t, int32(1), employees.listCalls.Load())
	assert.Equal(t, []int{3, 3, 3, 3}, results)
}

func TestComputeLeaderboard_CancelledCallerDoesNotFailOthers(t *testing.T) {
	svc, employees := newTestService()
	employees.gate = make(chan struct{})

	firstCtx, cancel := context.WithCancel(authContext(t, user.RoleManager, ""))
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.ComputeLeaderboard(firstCtx, day(4), day(10))
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return employees.listCalls.Load() >= 1 }, time.Second, time.Millisecond)

	type result struct {
		records int
		err     error
	}
	secondCtx := authContext(t, user.RoleManager, "")
	second := make(chan result, 1)
	go func() {
		lb, err := svc.ComputeLeaderboard(secondCtx, day(4), day(10))
		second <- result{records: len(lb.Records), err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(employees.gate)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 3, res.records)
	assert.Equal(t, int32(1), employees.listCalls.Load())
}
