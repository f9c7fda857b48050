package earnings

import (
	"testing"
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(i int) *int { return &i }

func perShiftEmployee() employee.Employee {
	return employee.Employee{
		ID:             "emp-1",
		PayBasis:       employee.PayBasisPerShift,
		ShiftStart:     strPtr("09:00"),
		ShiftEnd:       strPtr("18:00"),
		BreakMinutes:   60,
		PerShiftAmount: decPtr("800"),
	}
}

func entry(in, out string) timesheet.Entry {
	e := timesheet.Entry{
		EmployeeID: "emp-1",
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		DayType:    timesheet.DayTypeWork,
	}
	if in != "" {
		e.ClockIn = strPtr(in)
	}
	if out != "" {
		e.ClockOut = strPtr(out)
	}
	return e
}

func TestDailyEarnings_PerShiftExample(t *testing.T) {
	calc := NewCalculator()
	emp := perShiftEmployee()

	assert.True(t, calc.HourlyRate(emp).Equal(decimal.NewFromInt(100)))

	e := entry("09:00", "18:00")
	e.BreakMinutes = intPtr(60)
	assert.True(t, calc.BillableHours(e, emp).Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "800", calc.DailyEarnings(e, emp).String())
}

func TestDailyEarnings_NoPunchesIsZero(t *testing.T) {
	calc := NewCalculator()
	emp := perShiftEmployee()

	for _, e := range []timesheet.Entry{entry("", ""), entry("09:00", ""), entry("", "18:00")} {
		assert.True(t, calc.DailyEarnings(e, emp).IsZero())
	}

	travel := entry("", "")
	travel.DayType = timesheet.DayTypeTravel
	assert.True(t, calc.DailyEarnings(travel, emp).IsZero())
}

func TestDailyEarnings_MalformedPunchIsZero(t *testing.T) {
	calc := NewCalculator()
	assert.True(t, calc.DailyEarnings(entry("9am", "18:00"), perShiftEmployee()).IsZero())
}

func TestDailyEarnings_BreakLongerThanShiftIsZero(t *testing.T) {
	calc := NewCalculator()
	e := entry("09:00", "09:30")
	e.BreakMinutes = intPtr(60)
	assert.True(t, calc.DailyEarnings(e, perShiftEmployee()).IsZero())
}

func TestDailyEarnings_EmployeeBreakIsDefault(t *testing.T) {
	calc := NewCalculator()
	// 9h minus the employee's 60 minute break
	assert.Equal(t, "800", calc.DailyEarnings(entry("09:00", "18:00"), perShiftEmployee()).String())

	e := entry("09:00", "18:00")
	e.BreakMinutes = intPtr(0)
	assert.Equal(t, "900", calc.DailyEarnings(e, perShiftEmployee()).String())
}

func TestDailyEarnings_OvernightTravel(t *testing.T) {
	calc := NewCalculator()
	emp := employee.Employee{PayBasis: employee.PayBasisHourly, HourlyRate: decPtr("50")}

	e := entry("22:00", "06:00")
	e.DayType = timesheet.DayTypeTravel
	assert.Equal(t, "400", calc.DailyEarnings(e, emp).String())
}

func TestHourlyRate_Fallbacks(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name string
		emp  employee.Employee
		want string
	}{
		{
			name: "hourly basis",
			emp:  employee.Employee{PayBasis: employee.PayBasisHourly, HourlyRate: decPtr("75"), PerShiftAmount: decPtr("800")},
			want: "75",
		},
		{
			name: "monthly salary over 30 days of 8 hours",
			emp:  employee.Employee{PayBasis: employee.PayBasisMonthlySalary, MonthlySalary: decPtr("24000")},
			want: "100",
		},
		{
			name: "per shift without shift config uses 8h",
			emp:  employee.Employee{PayBasis: employee.PayBasisPerShift, PerShiftAmount: decPtr("400")},
			want: "50",
		},
		{
			name: "configured basis empty falls back to per shift",
			emp:  employee.Employee{PayBasis: employee.PayBasisHourly, PerShiftAmount: decPtr("800"), MonthlySalary: decPtr("24000")},
			want: "100",
		},
		{
			name: "zero amount is unusable",
			emp:  employee.Employee{PayBasis: employee.PayBasisPerShift, PerShiftAmount: decPtr("0"), HourlyRate: decPtr("60")},
			want: "60",
		},
		{
			name: "nothing configured",
			emp:  employee.Employee{PayBasis: employee.PayBasisPerShift},
			want: "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, calc.HourlyRate(tt.emp).Equal(decimal.RequireFromString(tt.want)), calc.HourlyRate(tt.emp).String())
		})
	}
}

func TestDailyEarnings_NoRateIsZero(t *testing.T) {
	calc := NewCalculator()
	emp := employee.Employee{PayBasis: employee.PayBasisHourly}
	assert.True(t, calc.DailyEarnings(entry("09:00", "17:00"), emp).IsZero())
}

func TestDailyEarnings_RoundsToCents(t *testing.T) {
	calc := NewCalculator()
	emp := employee.Employee{PayBasis: employee.PayBasisHourly, HourlyRate: decPtr("10")}
	// 20 minutes at 10/h
	assert.Equal(t, "3.33", calc.DailyEarnings(entry("09:00", "09:20"), emp).String())
}
