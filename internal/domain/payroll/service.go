package payroll

import (
	"context"
	"time"
)

type PayrollService interface {
	ComputePeriodSummary(ctx context.Context, employeeID string, start, end time.Time) (PeriodSummary, error)
	ComputeCompanySummaries(ctx context.Context, start, end time.Time) ([]PeriodSummary, error)
	CreateDeduction(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	ListDeductions(ctx context.Context, employeeID string, start, end *time.Time) ([]DeductionResponse, error)
}
