package earnings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

const (
	minutesPerDay = 24 * 60

	// FallbackShiftMinutes is the standard shift used when an employee has no
	// usable shift configuration.
	FallbackShiftMinutes = 8 * 60
)

var ErrInvalidClock = errors.New("invalid time of day")

// ParseClock converts "HH:MM" or "HH:MM:SS" to minutes after midnight.
// Seconds are truncated.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	return h*60 + m, nil
}

// ShiftDurationMinutes returns the minutes between start and end. An end
// before start crosses midnight. Equal values are a zero-length shift.
func ShiftDurationMinutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e < s {
		e += minutesPerDay
	}
	return e - s, nil
}

func BillableMinutes(totalMinutes, breakMinutes int) int {
	return max(0, totalMinutes-breakMinutes)
}

// StandardShiftMinutes is the employee's configured shift length minus the
// configured break, or FallbackShiftMinutes when that is not positive.
func StandardShiftMinutes(emp employee.Employee) int {
	if emp.ShiftStart == nil || emp.ShiftEnd == nil {
		return FallbackShiftMinutes
	}
	total, err := ShiftDurationMinutes(*emp.ShiftStart, *emp.ShiftEnd)
	if err != nil {
		return FallbackShiftMinutes
	}
	billable := BillableMinutes(total, emp.BreakMinutes)
	if billable <= 0 {
		return FallbackShiftMinutes
	}
	return billable
}

func StandardShiftHours(emp employee.Employee) decimal.Decimal {
	return minutesToHours(StandardShiftMinutes(emp))
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}
