package earnings

import (
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// Monthly salaries convert to an hourly rate over a fixed 30 day, 8 hour month.
const (
	monthlyDivisorDays  = 30
	monthlyDivisorHours = 8
)

// Calculator is the single place pay rates and daily earnings are derived.
// It is stateless and safe for concurrent use.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// HourlyRate derives the hourly rate for emp. The configured pay basis is
// tried first; when its amount is missing or zero the bases are tried in the
// order per-shift, hourly, monthly salary. Zero means no usable rate.
func (c *Calculator) HourlyRate(emp employee.Employee) decimal.Decimal {
	if rate, ok := c.rateFor(emp, emp.PayBasis); ok {
		return rate
	}
	for _, basis := range []employee.PayBasis{
		employee.PayBasisPerShift,
		employee.PayBasisHourly,
		employee.PayBasisMonthlySalary,
	} {
		if rate, ok := c.rateFor(emp, basis); ok {
			return rate
		}
	}
	return decimal.Zero
}

func (c *Calculator) rateFor(emp employee.Employee, basis employee.PayBasis) (decimal.Decimal, bool) {
	switch basis {
	case employee.PayBasisPerShift:
		if usable(emp.PerShiftAmount) {
			return emp.PerShiftAmount.Div(StandardShiftHours(emp)), true
		}
	case employee.PayBasisHourly:
		if usable(emp.HourlyRate) {
			return *emp.HourlyRate, true
		}
	case employee.PayBasisMonthlySalary:
		if usable(emp.MonthlySalary) {
			return emp.MonthlySalary.
				Div(decimal.NewFromInt(monthlyDivisorDays)).
				Div(decimal.NewFromInt(monthlyDivisorHours)), true
		}
	}
	return decimal.Zero, false
}

func usable(amount *decimal.Decimal) bool {
	return amount != nil && amount.IsPositive()
}

// BillableMinutes returns the worked minutes for entry after its break, and
// false when either punch is missing or malformed.
func (c *Calculator) BillableMinutes(entry timesheet.Entry, emp employee.Employee) (int, bool) {
	if !entry.HasPunches() {
		return 0, false
	}
	total, err := ShiftDurationMinutes(*entry.ClockIn, *entry.ClockOut)
	if err != nil {
		return 0, false
	}
	breakMinutes := emp.BreakMinutes
	if entry.BreakMinutes != nil {
		breakMinutes = *entry.BreakMinutes
	}
	return BillableMinutes(total, breakMinutes), true
}

func (c *Calculator) BillableHours(entry timesheet.Entry, emp employee.Employee) decimal.Decimal {
	minutes, _ := c.BillableMinutes(entry, emp)
	return minutesToHours(minutes)
}

// DailyEarnings is the pay for a single timesheet row, rounded to cents. Rows
// without both punches earn 0. Travel rows with punches are paid like work.
func (c *Calculator) DailyEarnings(entry timesheet.Entry, emp employee.Employee) decimal.Decimal {
	minutes, ok := c.BillableMinutes(entry, emp)
	if !ok || minutes == 0 {
		return decimal.Zero
	}
	rate := c.HourlyRate(emp)
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return rate.Mul(minutesToHours(minutes)).Round(2)
}
