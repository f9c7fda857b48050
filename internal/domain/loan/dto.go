package loan

import (
	"time"

	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type IssueOrUpdateRequest struct {
	EmployeeID        string           `json:"-"`
	Amount            decimal.Decimal  `json:"amount"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
	Date              string           `json:"date"`
}

func (r *IssueOrUpdateRequest) Validate() error {
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

	if r.InstallmentAmount != nil {
		if !r.InstallmentAmount.IsPositive() {
			errs = append(errs, validator.ValidationError{
				Field:   "installment_amount",
				Message: "installment_amount must be greater than zero",
			})
		} else if r.InstallmentAmount.GreaterThan(r.Amount) {
			errs = append(errs, validator.ValidationError{
				Field:   "installment_amount",
				Message: "installment_amount must not exceed amount",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoanResponse struct {
	ID                string           `json:"id"`
	EmployeeID        string           `json:"employee_id"`
	Amount            decimal.Decimal  `json:"amount"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount"`
	IssuedOn          string           `json:"issued_on"`
	Status            Status           `json:"status"`
	ClosedAt          *string          `json:"closed_at"`
}

func NewLoanResponse(l Loan) LoanResponse {
	resp := LoanResponse{
		ID:                l.ID,
		EmployeeID:        l.EmployeeID,
		Amount:            l.Amount,
		InstallmentAmount: l.InstallmentAmount,
		IssuedOn:          l.IssuedOn.Format(validator.DateLayout),
		Status:            l.Status,
	}
	if l.ClosedAt != nil {
		s := l.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &s
	}
	return resp
}

// IssueOrUpdateResponse tells the caller which path was taken.
type IssueOrUpdateResponse struct {
	Loan    LoanResponse `json:"loan"`
	Created bool         `json:"created"`
}
