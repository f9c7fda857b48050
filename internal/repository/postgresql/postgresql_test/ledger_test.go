package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/domain/payroll"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "0192a0c4-5c1e-7c3a-9d5e-0a1b2c3d4e5f"

func newTestID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func strPtr(s string) *string { return &s }

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	id, err := setup.InsertEmployee(ctx, testCompanyID, "E-001")
	require.NoError(t, err)

	emp, err := repo.GetByID(ctx, id, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Employee E-001", emp.FullName)
	require.NotNil(t, emp.ShiftStart)
	assert.Equal(t, "09:00", *emp.ShiftStart)
	require.NotNil(t, emp.PerShiftAmount)
	assert.True(t, emp.PerShiftAmount.Equal(decimal.NewFromInt(800)))

	_, err = repo.GetByID(ctx, newTestID(t), testCompanyID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	active, err := repo.GetActiveByCompanyID(ctx, testCompanyID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	companies, err := repo.ListCompanyIDsWithActiveEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{testCompanyID}, companies)

	txm := postgresql.NewTxManager(setup.DB)
	err = txm.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := repo.LockForUpdate(ctx, id, testCompanyID)
		if err != nil {
			return err
		}
		assert.Equal(t, id, locked.ID)
		assert.True(t, locked.IsActive())
		return nil
	})
	assert.NoError(t, err)
}

func TestTimesheetRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewTimesheetRepository(setup.DB)

	empID, err := setup.InsertEmployee(ctx, testCompanyID, "E-002")
	require.NoError(t, err)

	created, err := repo.CreateMissing(ctx, testCompanyID, empID, []time.Time{day("2024-03-01"), day("2024-03-02")})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = repo.CreateMissing(ctx, testCompanyID, empID, []time.Time{day("2024-03-01"), day("2024-03-03")})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	existing, err := repo.GetByEmployeeDate(ctx, testCompanyID, empID, day("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, timesheet.EntryStatusNew, existing.Status)
	assert.False(t, existing.HasPunches())

	existing.ClockIn = strPtr("09:00")
	existing.ClockOut = strPtr("17:30")
	existing.Status = timesheet.EntryStatusActive
	saved, err := repo.Upsert(ctx, existing)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, saved.ID)
	assert.Equal(t, "17:30", *saved.ClockOut)

	require.NoError(t, repo.InsertRevision(ctx, saved))

	travel := timesheet.DayTypeTravel
	entries, err := repo.List(ctx, testCompanyID, timesheet.EntryFilter{
		EmployeeID: empID,
		Start:      day("2024-03-01"),
		End:        day("2024-03-02"),
	})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.True(t, entries[0].Date.Before(entries[1].Date))

	entries, err = repo.List(ctx, testCompanyID, timesheet.EntryFilter{EmployeeID: empID, DayType: &travel})
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = repo.GetByEmployeeDate(ctx, testCompanyID, empID, day("2024-04-01"))
	assert.ErrorIs(t, err, timesheet.ErrEntryNotFound)
}

func TestBonusRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewBonusRepository(setup.DB)

	empID, err := setup.InsertEmployee(ctx, testCompanyID, "E-003")
	require.NoError(t, err)

	totals, err := repo.Totals(ctx, testCompanyID, empID)
	require.NoError(t, err)
	assert.True(t, totals.Balance().IsZero())

	start, end := day("2024-03-01"), day("2024-03-31")
	accrual := bonus.Accrual{
		ID:          newTestID(t),
		CompanyID:   testCompanyID,
		EmployeeID:  empID,
		Amount:      decimal.NewFromInt(500),
		BonusDays:   5,
		PeriodStart: &start,
		PeriodEnd:   &end,
		AccruedOn:   end,
		Source:      bonus.AccrualSourceAttendance,
	}
	_, err = repo.InsertAccrual(ctx, accrual)
	require.NoError(t, err)

	accrual.ID = newTestID(t)
	_, err = repo.InsertAccrual(ctx, accrual)
	assert.ErrorIs(t, err, bonus.ErrAlreadyAccrued)

	exists, err := repo.AccrualExists(ctx, empID, start, end)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.InsertWithdrawal(ctx, bonus.Withdrawal{
		ID:          newTestID(t),
		CompanyID:   testCompanyID,
		EmployeeID:  empID,
		Amount:      decimal.RequireFromString("120.50"),
		WithdrawnOn: day("2024-04-02"),
	})
	require.NoError(t, err)

	totals, err = repo.Totals(ctx, testCompanyID, empID)
	require.NoError(t, err)
	assert.True(t, totals.Balance().Equal(decimal.RequireFromString("379.50")), totals.Balance().String())

	withdrawals, err := repo.ListWithdrawals(ctx, testCompanyID, bonus.HistoryFilter{EmployeeID: empID, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, withdrawals, 1)

	from := day("2024-04-01")
	accruals, err := repo.ListAccruals(ctx, testCompanyID, bonus.HistoryFilter{EmployeeID: empID, From: &from})
	require.NoError(t, err)
	assert.Empty(t, accruals)
}

func TestLoanRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLoanRepository(setup.DB)

	empID, err := setup.InsertEmployee(ctx, testCompanyID, "E-004")
	require.NoError(t, err)

	_, err = repo.GetActiveByEmployee(ctx, testCompanyID, empID)
	assert.ErrorIs(t, err, loan.ErrNoActiveLoan)

	first, err := repo.Create(ctx, loan.Loan{
		ID: newTestID(t), CompanyID: testCompanyID, EmployeeID: empID,
		Amount: decimal.NewFromInt(1000), IssuedOn: day("2024-03-01"),
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive())

	_, err = repo.Create(ctx, loan.Loan{
		ID: newTestID(t), CompanyID: testCompanyID, EmployeeID: empID,
		Amount: decimal.NewFromInt(50), IssuedOn: day("2024-03-02"),
	})
	assert.ErrorIs(t, err, loan.ErrActiveLoanExists)

	installment := decimal.NewFromInt(250)
	first.Amount = decimal.NewFromInt(1500)
	first.InstallmentAmount = &installment
	updated, err := repo.UpdateActive(ctx, first)
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(1500)))

	closed, err := repo.Close(ctx, first.ID, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	_, err = repo.Close(ctx, first.ID, testCompanyID)
	assert.ErrorIs(t, err, loan.ErrLoanAlreadyClosed)

	_, err = repo.UpdateActive(ctx, first)
	assert.ErrorIs(t, err, loan.ErrNoActiveLoan)

	_, err = repo.GetByID(ctx, newTestID(t), testCompanyID)
	assert.ErrorIs(t, err, loan.ErrLoanNotFound)

	loans, err := repo.ListByEmployee(ctx, testCompanyID, empID)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
}

func TestDeductionRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewDeductionRepository(setup.DB)

	empID, err := setup.InsertEmployee(ctx, testCompanyID, "E-005")
	require.NoError(t, err)

	for _, r := range []struct{ start, end string }{
		{"2024-02-20", "2024-03-05"},
		{"2024-03-10", "2024-03-10"},
		{"2024-04-01", "2024-04-30"},
	} {
		_, err := repo.Create(ctx, payroll.Deduction{
			ID: newTestID(t), CompanyID: testCompanyID, EmployeeID: empID,
			Kind: payroll.DeductionKindManual, Amount: decimal.NewFromInt(10),
			PeriodStart: day(r.start), PeriodEnd: day(r.end),
		})
		require.NoError(t, err)
	}

	start, end := day("2024-03-01"), day("2024-03-31")
	rows, err := repo.List(ctx, testCompanyID, payroll.DeductionFilter{EmployeeID: empID, Start: &start, End: &end})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	advance := payroll.DeductionKindAdvance
	rows, err = repo.List(ctx, testCompanyID, payroll.DeductionFilter{EmployeeID: empID, Kind: &advance})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
