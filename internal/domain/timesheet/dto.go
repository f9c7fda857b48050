package timesheet

import (
	"fmt"
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const MaxPeriodDays = 62

type EntryInput struct {
	Date         string  `json:"date"`
	ClockIn      *string `json:"clock_in,omitempty"`
	ClockOut     *string `json:"clock_out,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	DayType      string  `json:"day_type"`
	Notes        *string `json:"notes,omitempty"`
}

// Validate checks a single row. Field names are relative to the row; callers
// scope them with WithPrefix.
func (r *EntryInput) Validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.ClockIn != nil && *r.ClockIn != "" && !validator.IsValidClock(*r.ClockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in must be in HH:MM format",
		})
	}
	if r.ClockOut != nil && *r.ClockOut != "" && !validator.IsValidClock(*r.ClockOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be in HH:MM format",
		})
	}

	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must not be negative",
		})
	}

	if r.DayType != "" && !DayType(r.DayType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "day_type",
			Message: "day_type must be one of: work, travel",
		})
	}

	return errs
}

// ToEntry converts a row that has already passed Validate.
func (r *EntryInput) ToEntry(companyID, employeeID string) Entry {
	date, _ := validator.IsValidDate(r.Date)
	dayType := DayType(r.DayType)
	if dayType == "" {
		dayType = DayTypeWork
	}
	return Entry{
		CompanyID:    companyID,
		EmployeeID:   employeeID,
		Date:         date,
		ClockIn:      blankToNil(r.ClockIn),
		ClockOut:     blankToNil(r.ClockOut),
		BreakMinutes: r.BreakMinutes,
		DayType:      dayType,
		Notes:        r.Notes,
	}
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := (*s)[:5] // seconds are not tracked
	return &v
}

type SaveEntriesRequest struct {
	EmployeeID string       `json:"-"`
	Entries    []EntryInput `json:"entries"`
}

// Validate returns the per-row errors keyed as entries[i].field, plus a mask
// of the rows that failed. Valid rows may be saved independently.
func (r *SaveEntriesRequest) Validate() (validator.ValidationErrors, []bool) {
	var errs validator.ValidationErrors
	invalid := make([]bool, len(r.Entries))
	if len(r.Entries) == 0 {
		return validator.ValidationErrors{{Field: "entries", Message: ErrEmptyEntryBatch.Error()}}, invalid
	}

	seen := make(map[string]int, len(r.Entries))
	for i := range r.Entries {
		rowErrs := r.Entries[i].Validate()
		if first, dup := seen[r.Entries[i].Date]; dup && r.Entries[i].Date != "" {
			rowErrs = append(rowErrs, validator.ValidationError{
				Field:   "date",
				Message: fmt.Sprintf("date duplicates entries[%d]", first),
			})
		} else {
			seen[r.Entries[i].Date] = i
		}
		if len(rowErrs) > 0 {
			invalid[i] = true
			errs = append(errs, rowErrs.WithPrefix(fmt.Sprintf("entries[%d]", i))...)
		}
	}
	return errs, invalid
}

type OpenPeriodRequest struct {
	EmployeeID  string `json:"-"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r *OpenPeriodRequest) Validate() (time.Time, time.Time, error) {
	return validator.ParsePeriod(r.PeriodStart, r.PeriodEnd, MaxPeriodDays)
}

type EntryResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	ClockIn      *string `json:"clock_in"`
	ClockOut     *string `json:"clock_out"`
	BreakMinutes *int    `json:"break_minutes"`
	DayType      DayType `json:"day_type"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		Date:         e.Date.Format(validator.DateLayout),
		ClockIn:      e.ClockIn,
		ClockOut:     e.ClockOut,
		BreakMinutes: e.BreakMinutes,
		DayType:      e.DayType,
		Status:       string(e.Status),
		Notes:        e.Notes,
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}

type SaveEntriesResponse struct {
	Saved  []EntryResponse            `json:"saved"`
	Errors validator.ValidationErrors `json:"errors"`
}

type OpenPeriodResponse struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Created     int    `json:"created"`
}

type DailyEarningsResponse struct {
	EmployeeID    string          `json:"employee_id"`
	Date          string          `json:"date"`
	BillableHours decimal.Decimal `json:"billable_hours"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	Earnings      decimal.Decimal `json:"earnings"`
}

type ListEntriesRequest struct {
	EmployeeID  string
	PeriodStart string
	PeriodEnd   string
	DayType     string
}

func (r *ListEntriesRequest) Validate() (EntryFilter, error) {
	start, end, err := validator.ParsePeriod(r.PeriodStart, r.PeriodEnd, MaxPeriodDays)
	var errs validator.ValidationErrors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		errs = verrs
	}
	filter := EntryFilter{EmployeeID: r.EmployeeID, Start: start, End: end}
	if r.DayType != "" {
		dt := DayType(r.DayType)
		if !dt.IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "day_type",
				Message: "day_type must be one of: work, travel",
			})
		}
		filter.DayType = &dt
	}
	if len(errs) > 0 {
		return EntryFilter{}, errs
	}
	return filter, nil
}
