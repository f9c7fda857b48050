package payroll

import (
	"context"
	"time"
)

type DeductionFilter struct {
	EmployeeID string
	Start      *time.Time
	End        *time.Time
	Kind       *DeductionKind
}

type DeductionRepository interface {
	Create(ctx context.Context, deduction Deduction) (Deduction, error)
	// List returns deductions overlapping [Start, End] when both are set.
	List(ctx context.Context, companyID string, filter DeductionFilter) ([]Deduction, error)
}
