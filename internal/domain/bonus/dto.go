package bonus

import (
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type WithdrawRequest struct {
	EmployeeID string          `json:"-"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Notes      *string         `json:"notes,omitempty"`
}

func (r *WithdrawRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Amount.Equal(r.Amount.Round(2)) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must have at most 2 decimal places",
		})
	}

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

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ManualAccrueRequest struct {
	EmployeeID string          `json:"-"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Notes      *string         `json:"notes,omitempty"`
}

func (r *ManualAccrueRequest) Validate() error {
	var errs validator.ValidationErrors

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
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunAccrualRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r *RunAccrualRequest) Validate() (time.Time, time.Time, error) {
	return validator.ParsePeriod(r.PeriodStart, r.PeriodEnd, 62)
}

type BalanceResponse struct {
	EmployeeID     string          `json:"employee_id"`
	TotalAccrued   decimal.Decimal `json:"total_accrued"`
	TotalWithdrawn decimal.Decimal `json:"total_withdrawn"`
	Balance        decimal.Decimal `json:"balance"`
}

type WithdrawalResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Notes       *string         `json:"notes"`
	BalanceLeft decimal.Decimal `json:"balance_after,omitempty"`
}

func NewWithdrawalResponse(w Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		ID:         w.ID,
		EmployeeID: w.EmployeeID,
		Amount:     w.Amount,
		Date:       w.WithdrawnOn.Format(validator.DateLayout),
		Notes:      w.Notes,
	}
}

type AccrualResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Amount      decimal.Decimal `json:"amount"`
	BonusDays   int             `json:"bonus_days"`
	PeriodStart *string         `json:"period_start"`
	PeriodEnd   *string         `json:"period_end"`
	Date        string          `json:"date"`
	Source      AccrualSource   `json:"source"`
	Notes       *string         `json:"notes"`
}

func NewAccrualResponse(a Accrual) AccrualResponse {
	resp := AccrualResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Amount:     a.Amount,
		BonusDays:  a.BonusDays,
		Date:       a.AccruedOn.Format(validator.DateLayout),
		Source:     a.Source,
		Notes:      a.Notes,
	}
	if a.PeriodStart != nil {
		s := a.PeriodStart.Format(validator.DateLayout)
		resp.PeriodStart = &s
	}
	if a.PeriodEnd != nil {
		s := a.PeriodEnd.Format(validator.DateLayout)
		resp.PeriodEnd = &s
	}
	return resp
}

type AccrualRunResponse struct {
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Accrued     int             `json:"accrued"`
	Skipped     int             `json:"skipped"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
