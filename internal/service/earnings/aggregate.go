package earnings

import (
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

const dateKey = "2006-01-02"

type DayResult struct {
	Date            time.Time
	DayType         timesheet.DayType
	Present         bool
	BillableMinutes int
	Earnings        decimal.Decimal
}

type PeriodResult struct {
	Attendance timesheet.AttendanceAggregate
	Days       []DayResult
	Gross      decimal.Decimal
}

// Summarize walks every calendar day of [start, end] and folds the matching
// entries into attendance counts and per-day earnings. Days falling on
// offDay are not working days, though work recorded on them still counts.
func (c *Calculator) Summarize(emp employee.Employee, entries []timesheet.Entry, start, end time.Time, offDay time.Weekday) PeriodResult {
	byDate := make(map[string]timesheet.Entry, len(entries))
	for _, e := range entries {
		byDate[e.Date.Format(dateKey)] = e
	}

	standard := StandardShiftMinutes(emp)
	result := PeriodResult{
		Attendance: timesheet.AttendanceAggregate{PeriodStart: start, PeriodEnd: end},
		Gross:      decimal.Zero,
	}
	agg := &result.Attendance

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		working := day.Weekday() != offDay
		if working {
			agg.TotalWorkingDays++
		}

		entry, ok := byDate[day.Format(dateKey)]
		if !ok {
			if working {
				agg.AbsentDays++
			}
			continue
		}

		minutes, punched := c.BillableMinutes(entry, emp)
		present := punched || entry.DayType == timesheet.DayTypeTravel
		dayResult := DayResult{
			Date:            day,
			DayType:         entry.DayType,
			Present:         present,
			BillableMinutes: minutes,
			Earnings:        c.DailyEarnings(entry, emp),
		}
		result.Days = append(result.Days, dayResult)
		result.Gross = result.Gross.Add(dayResult.Earnings)

		if !present {
			if working {
				agg.AbsentDays++
			}
			continue
		}

		agg.PresentDays++
		if entry.DayType == timesheet.DayTypeTravel {
			agg.TravelDays++
		} else {
			agg.WorkDays++
		}
		if punched {
			agg.HoursDays++
			agg.TotalMinutes += minutes
			if minutes > standard {
				agg.OvertimeMinutes += minutes - standard
			}
			if minutes >= standard {
				agg.BonusDays++
			}
		}
	}

	return result
}
