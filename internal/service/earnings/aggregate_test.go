package earnings

import (
	"testing"
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	calc := NewCalculator()
	emp := perShiftEmployee()

	// 2024-03-04 is a Monday; the period runs Monday to Sunday.
	e1 := entry("09:00", "18:00") // 8h, bonus day
	e1.Date = day(4)
	e2 := entry("08:00", "19:00") // 10h, 2h overtime
	e2.Date = day(5)
	e3 := entry("09:00", "13:00") // 3h
	e3.Date = day(6)
	e4 := entry("", "") // travel without punches
	e4.Date = day(7)
	e4.DayType = timesheet.DayTypeTravel
	e5 := entry("", "") // blank row
	e5.Date = day(8)
	outside := entry("09:00", "18:00")
	outside.Date = day(20)

	res := calc.Summarize(emp, []timesheet.Entry{e1, e2, e3, e4, e5, outside}, day(4), day(10), time.Sunday)
	agg := res.Attendance

	assert.Equal(t, 6, agg.TotalWorkingDays)
	assert.Equal(t, 4, agg.PresentDays)
	assert.Equal(t, 3, agg.WorkDays)
	assert.Equal(t, 1, agg.TravelDays)
	assert.Equal(t, 2, agg.AbsentDays) // the blank Friday and the missing Saturday
	assert.Equal(t, 3, agg.HoursDays)
	assert.Equal(t, 2, agg.BonusDays)
	assert.Equal(t, (8+10+3)*60, agg.TotalMinutes)
	assert.Equal(t, 120, agg.OvertimeMinutes)
	assert.InDelta(t, 7.0, agg.AvgHoursPerDay(), 0.0001)

	assert.Len(t, res.Days, 5)
	// 800 + 1000 + 300
	assert.Equal(t, "2100", res.Gross.String())
}

func TestSummarize_EmptyPeriod(t *testing.T) {
	calc := NewCalculator()
	res := calc.Summarize(perShiftEmployee(), nil, day(10), day(10), time.Sunday)

	assert.Equal(t, 0, res.Attendance.TotalWorkingDays)
	assert.Equal(t, 0, res.Attendance.AbsentDays)
	assert.True(t, res.Gross.IsZero())
	assert.Zero(t, res.Attendance.AttendanceRate())
	assert.Zero(t, res.Attendance.AvgHoursPerDay())
}
