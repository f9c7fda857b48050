package payroll

import (
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const MaxPeriodDays = 62

type CreateDeductionRequest struct {
	EmployeeID  string          `json:"-"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Notes       *string         `json:"notes,omitempty"`
}

func (r *CreateDeductionRequest) Validate() (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	if !DeductionKind(r.Kind).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: advance, manual",
		})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	} else if !r.Amount.Equal(r.Amount.Round(2)) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must have at most 2 decimal places",
		})
	}

	start, end, err := validator.ParsePeriod(r.PeriodStart, r.PeriodEnd, MaxPeriodDays)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		errs = append(errs, verrs...)
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}
	return start, end, nil
}

type DeductionResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Kind        DeductionKind   `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Notes       *string         `json:"notes"`
}

func NewDeductionResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:          d.ID,
		EmployeeID:  d.EmployeeID,
		Kind:        d.Kind,
		Amount:      d.Amount,
		PeriodStart: d.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:   d.PeriodEnd.Format(validator.DateLayout),
		Notes:       d.Notes,
	}
}

type PeriodRequest struct {
	EmployeeID  string
	PeriodStart string
	PeriodEnd   string
}

func (r *PeriodRequest) Validate() (time.Time, time.Time, error) {
	return validator.ParsePeriod(r.PeriodStart, r.PeriodEnd, MaxPeriodDays)
}

type DailyEarningResponse struct {
	Date          string          `json:"date"`
	DayType       string          `json:"day_type"`
	BillableHours decimal.Decimal `json:"billable_hours"`
	Earnings      decimal.Decimal `json:"earnings"`
}

type AttendanceResponse struct {
	TotalWorkingDays int     `json:"total_working_days"`
	PresentDays      int     `json:"present_days"`
	AbsentDays       int     `json:"absent_days"`
	TravelDays       int     `json:"travel_days"`
	BonusDays        int     `json:"bonus_days"`
	TotalHours       float64 `json:"total_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
}

type PeriodSummaryResponse struct {
	EmployeeID       string                 `json:"employee_id"`
	EmployeeName     string                 `json:"employee_name"`
	PeriodStart      string                 `json:"period_start"`
	PeriodEnd        string                 `json:"period_end"`
	GrossPay         decimal.Decimal        `json:"gross_pay"`
	LoanDeduction    decimal.Decimal        `json:"loan_deduction"`
	AdvanceDeduction decimal.Decimal        `json:"advance_deduction"`
	ManualDeduction  decimal.Decimal        `json:"manual_deduction"`
	TotalDeductions  decimal.Decimal        `json:"total_deductions"`
	NetPay           decimal.Decimal        `json:"net_pay"`
	OverDeducted     bool                   `json:"over_deducted"`
	Shortfall        decimal.Decimal        `json:"shortfall"`
	Warnings         []string               `json:"warnings"`
	Attendance       AttendanceResponse     `json:"attendance"`
	DailyEarnings    []DailyEarningResponse `json:"daily_earnings,omitempty"`
}

func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

func NewPeriodSummaryResponse(s PeriodSummary) PeriodSummaryResponse {
	warnings := s.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	resp := PeriodSummaryResponse{
		EmployeeID:       s.EmployeeID,
		EmployeeName:     s.EmployeeName,
		PeriodStart:      s.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:        s.PeriodEnd.Format(validator.DateLayout),
		GrossPay:         s.GrossPay,
		LoanDeduction:    s.LoanDeduction,
		AdvanceDeduction: s.AdvanceDeduction,
		ManualDeduction:  s.ManualDeduction,
		TotalDeductions:  s.TotalDeductions,
		NetPay:           s.NetPay,
		OverDeducted:     s.OverDeducted,
		Shortfall:        s.Shortfall,
		Warnings:         warnings,
		Attendance: AttendanceResponse{
			TotalWorkingDays: s.Attendance.TotalWorkingDays,
			PresentDays:      s.Attendance.PresentDays,
			AbsentDays:       s.Attendance.AbsentDays,
			TravelDays:       s.Attendance.TravelDays,
			BonusDays:        s.Attendance.BonusDays,
			TotalHours:       round2(s.Attendance.TotalHours()),
			OvertimeHours:    round2(s.Attendance.OvertimeHours()),
		},
	}
	for _, d := range s.DailyEarnings {
		resp.DailyEarnings = append(resp.DailyEarnings, DailyEarningResponse{
			Date:          d.Date.Format(validator.DateLayout),
			DayType:       string(d.DayType),
			BillableHours: d.BillableHours,
			Earnings:      d.Earnings,
		})
	}
	return resp
}

// SummaryRow is the flattened export shape of a period summary.
type SummaryRow struct {
	EmployeeID       string `csv:"employee_id"`
	EmployeeName     string `csv:"employee_name"`
	PeriodStart      string `csv:"period_start"`
	PeriodEnd        string `csv:"period_end"`
	PresentDays      int    `csv:"present_days"`
	GrossPay         string `csv:"gross_pay"`
	LoanDeduction    string `csv:"loan_deduction"`
	AdvanceDeduction string `csv:"advance_deduction"`
	ManualDeduction  string `csv:"manual_deduction"`
	NetPay           string `csv:"net_pay"`
	OverDeducted     bool   `csv:"over_deducted"`
}

func NewSummaryRow(s PeriodSummary) SummaryRow {
	return SummaryRow{
		EmployeeID:       s.EmployeeID,
		EmployeeName:     s.EmployeeName,
		PeriodStart:      s.PeriodStart.Format(validator.DateLayout),
		PeriodEnd:        s.PeriodEnd.Format(validator.DateLayout),
		PresentDays:      s.Attendance.PresentDays,
		GrossPay:         s.GrossPay.StringFixed(2),
		LoanDeduction:    s.LoanDeduction.StringFixed(2),
		AdvanceDeduction: s.AdvanceDeduction.StringFixed(2),
		ManualDeduction:  s.ManualDeduction.StringFixed(2),
		NetPay:           s.NetPay.StringFixed(2),
		OverDeducted:     s.OverDeducted,
	}
}
