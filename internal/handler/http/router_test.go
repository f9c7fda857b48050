package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/domain/payroll"
	"github.com/opsdesk/payroll-backend-go/internal/domain/performance"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/middleware"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-secret-key-for-jwt"
	testCompanyID  = "0192a0c4-5c1e-7c3a-9d5e-0a1b2c3d4e5f"
	testEmployeeID = "0192a0c4-5c1e-7c3a-9d5e-0a1b2c3d4e60"
)

type fakeTimesheetService struct {
	timesheet.TimesheetService
	saveResult timesheet.SaveEntriesResponse
	lastSave   timesheet.SaveEntriesRequest
}

func (f *fakeTimesheetService) ListEntries(_ context.Context, req timesheet.ListEntriesRequest) ([]timesheet.EntryResponse, error) {
	return []timesheet.EntryResponse{{Date: req.PeriodStart}, {Date: req.PeriodEnd}}, nil
}

func (f *fakeTimesheetService) SaveEntries(_ context.Context, req timesheet.SaveEntriesRequest) (timesheet.SaveEntriesResponse, error) {
	f.lastSave = req
	return f.saveResult, nil
}

type fakeBonusService struct {
	bonus.BonusService
	withdrawErr error
	withdrawals int
}

func (f *fakeBonusService) Withdraw(_ context.Context, req bonus.WithdrawRequest) (bonus.WithdrawalResponse, error) {
	if f.withdrawErr != nil {
		return bonus.WithdrawalResponse{}, f.withdrawErr
	}
	f.withdrawals++
	return bonus.WithdrawalResponse{EmployeeID: req.EmployeeID, Amount: req.Amount}, nil
}

type fakeLoanService struct {
	loan.LoanService
}

func (f *fakeLoanService) GetActiveLoan(context.Context, string) (*loan.LoanResponse, error) {
	return nil, nil
}

func (f *fakeLoanService) ListLoans(context.Context, string) ([]loan.LoanResponse, error) {
	return nil, nil
}

type fakePayrollService struct {
	payroll.PayrollService
}

type fakePerformanceService struct {
	performance.PerformanceService
	lb performance.Leaderboard
}

func (f *fakePerformanceService) ComputeLeaderboard(_ context.Context, start, end time.Time) (performance.Leaderboard, error) {
	lb := f.lb
	lb.PeriodStart, lb.PeriodEnd = start, end
	return lb, nil
}

type testServer struct {
	router      http.Handler
	jwt         jwt.Service
	timesheets  *fakeTimesheetService
	bonuses     *fakeBonusService
	performance *fakePerformanceService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		jwt:         jwt.NewJWTService(testSecret, "1h"),
		timesheets:  &fakeTimesheetService{},
		bonuses:     &fakeBonusService{},
		performance: &fakePerformanceService{},
	}
	payrollSvc := &fakePayrollService{}
	s.router = NewRouter(RouterOptions{AppName: "test", Env: "test", AllowedOrigins: []string{"*"}},
		s.jwt, middleware.NewIdempotency(nil, 0), Handlers{
			Timesheet:   NewTimesheetHandler(s.timesheets),
			Bonus:       NewBonusHandler(s.bonuses),
			Loan:        NewLoanHandler(&fakeLoanService{}),
			Payroll:     NewPayrollHandler(payrollSvc),
			Performance: NewPerformanceHandler(s.performance),
			Report:      NewReportHandler(s.performance, payrollSvc),
		})
	return s
}

func (s *testServer) do(t *testing.T, role user.Role, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if role != "" {
		token, _, err := s.jwt.GenerateAccessToken(user.Actor{
			UserID:     "user-1",
			CompanyID:  testCompanyID,
			EmployeeID: testEmployeeID,
			Role:       role,
		})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, "", http.MethodGet, "/api/v1/employees/"+testEmployeeID+"/loans/active", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_InvalidEmployeeID(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, user.RoleManager, http.MethodGet, "/api/v1/employees/not-a-uuid/loans/active", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_NoActiveLoanReturnsNullData(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, user.RoleEmployee, http.MethodGet, "/api/v1/employees/"+testEmployeeID+"/loans/active", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Nil(t, body.Data)
}

func TestRouter_ListsCarryMeta(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, user.RoleEmployee, http.MethodGet, "/api/v1/employees/"+testEmployeeID+"/timesheets?start=2024-03-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Count)
	assert.Equal(t, "2024-03-01", body.Meta.PeriodStart)
	assert.Equal(t, "2024-03-31", body.Meta.PeriodEnd)

	rec = s.do(t, user.RoleEmployee, http.MethodGet, "/api/v1/employees/"+testEmployeeID+"/loans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
	body = decode(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 0, body.Meta.Count)
	assert.Empty(t, body.Meta.PeriodStart)
}

func TestRouter_WithdrawRequiresManager(t *testing.T) {
	s := newTestServer(t)
	payload := map[string]any{"amount": "100.00", "date": "2024-03-10"}

	rec := s.do(t, user.RoleEmployee, http.MethodPost, "/api/v1/employees/"+testEmployeeID+"/bonus/withdrawals", payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, s.bonuses.withdrawals)

	rec = s.do(t, user.RoleManager, http.MethodPost, "/api/v1/employees/"+testEmployeeID+"/bonus/withdrawals", payload)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, s.bonuses.withdrawals)
}

func TestRouter_WithdrawInsufficientBalance(t *testing.T) {
	s := newTestServer(t)
	s.bonuses.withdrawErr = bonus.ErrInsufficientBalance

	rec := s.do(t, user.RoleOwner, http.MethodPost, "/api/v1/employees/"+testEmployeeID+"/bonus/withdrawals",
		map[string]any{"amount": "999999", "date": "2024-03-10"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestRouter_SaveTimesheet(t *testing.T) {
	path := "/api/v1/employees/" + testEmployeeID + "/timesheets"
	payload := map[string]any{"entries": []map[string]any{{"date": "2024-03-01", "clock_in": "09:00", "clock_out": "17:00"}}}

	t.Run("partial batch", func(t *testing.T) {
		s := newTestServer(t)
		s.timesheets.saveResult = timesheet.SaveEntriesResponse{
			Saved:  []timesheet.EntryResponse{{Date: "2024-03-01"}},
			Errors: validator.ValidationErrors{{Field: "entries[1].clock_out", Message: "must be HH:MM"}},
		}

		rec := s.do(t, user.RoleManager, http.MethodPut, path, payload)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testEmployeeID, s.timesheets.lastSave.EmployeeID)
		assert.Contains(t, rec.Body.String(), "entries[1].clock_out")
	})

	t.Run("nothing saved", func(t *testing.T) {
		s := newTestServer(t)
		s.timesheets.saveResult = timesheet.SaveEntriesResponse{
			Errors: validator.ValidationErrors{{Field: "entries[0].date", Message: "is required"}},
		}

		rec := s.do(t, user.RoleManager, http.MethodPut, path, payload)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("employee cannot edit", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, user.RoleEmployee, http.MethodPut, path, payload)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRouter_LeaderboardPeriodValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, user.RoleEmployee, http.MethodGet, "/api/v1/performance/leaderboard?start=2024-03-31&end=2024-03-01", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Details, "period_end")
}

func TestRouter_ExportLeaderboardCSV(t *testing.T) {
	s := newTestServer(t)
	rec1 := performance.ScoreRecord{EmployeeID: "e1", EmployeeName: "Ana", Role: "Cashier", Rank: 1, Total: decimal.RequireFromString("88.5")}
	s.performance.lb = performance.Leaderboard{Records: []performance.ScoreRecord{rec1}, TopEligible: &rec1}

	rec := s.do(t, user.RoleOwner, http.MethodGet, "/api/v1/performance/leaderboard/export?start=2024-03-01&end=2024-03-31&format=csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "leaderboard_2024-03-01_2024-03-31.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "rank,employee_id,employee_name"))
	assert.Contains(t, lines[1], "88.50")
	assert.True(t, strings.HasSuffix(lines[1], "true"))
}

func TestRouter_ExportRejectsUnknownFormatAndEmployees(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, user.RoleOwner, http.MethodGet, "/api/v1/performance/leaderboard/export?start=2024-03-01&end=2024-03-31&format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, user.RoleEmployee, http.MethodGet, "/api/v1/performance/leaderboard/export?start=2024-03-01&end=2024-03-31&format=csv", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
