package timesheet

import "time"

type DayType string

const (
	DayTypeWork   DayType = "work"
	DayTypeTravel DayType = "travel"
)

func (d DayType) IsValid() bool {
	return d == DayTypeWork || d == DayTypeTravel
}

// EntryStatus tracks the lifecycle of a timesheet row. Rows are never deleted;
// each overwrite supersedes the previous version into the revision history.
type EntryStatus string

const (
	EntryStatusNew    EntryStatus = "new"    // pre-populated when a period is opened
	EntryStatusActive EntryStatus = "active" // first save
	EntryStatusEdited EntryStatus = "edited" // saved again after that
)

// NextStatus returns the status a row takes when it is saved on top of prev.
// prev is nil when no row exists for the date yet.
func NextStatus(prev *Entry) EntryStatus {
	if prev == nil || prev.Status == EntryStatusNew {
		return EntryStatusActive
	}
	return EntryStatusEdited
}

// Entry is one employee-day. At most one exists per (EmployeeID, Date).
type Entry struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	Date         time.Time
	ClockIn      *string // "HH:MM"
	ClockOut     *string // "HH:MM"
	BreakMinutes *int    // overrides the employee default when set
	DayType      DayType
	Status       EntryStatus
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPunches reports whether both clock-in and clock-out are recorded.
func (e Entry) HasPunches() bool {
	return e.ClockIn != nil && *e.ClockIn != "" && e.ClockOut != nil && *e.ClockOut != ""
}

// AttendanceAggregate summarises an employee's timesheet over a period.
type AttendanceAggregate struct {
	PeriodStart      time.Time
	PeriodEnd        time.Time
	TotalWorkingDays int
	PresentDays      int
	WorkDays         int
	TravelDays       int
	AbsentDays       int
	TotalMinutes     int
	OvertimeMinutes  int
	HoursDays        int // days with both punches, the divisor for the daily average
	BonusDays        int
}

func (a AttendanceAggregate) TotalHours() float64 {
	return float64(a.TotalMinutes) / 60
}

func (a AttendanceAggregate) OvertimeHours() float64 {
	return float64(a.OvertimeMinutes) / 60
}

func (a AttendanceAggregate) AvgHoursPerDay() float64 {
	if a.HoursDays == 0 {
		return 0
	}
	return a.TotalHours() / float64(a.HoursDays)
}

// AttendanceRate is PresentDays over TotalWorkingDays, capped at 1.
func (a AttendanceAggregate) AttendanceRate() float64 {
	if a.TotalWorkingDays == 0 {
		return 0
	}
	rate := float64(a.PresentDays) / float64(a.TotalWorkingDays)
	if rate > 1 {
		return 1
	}
	return rate
}
