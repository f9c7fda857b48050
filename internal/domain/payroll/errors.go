package payroll

import "errors"

var (
	ErrInvalidAmount = errors.New("deduction amount must be greater than zero")
	// ErrOverDeducted is never returned by the summary itself, which floors
	// net pay and sets the flag. Callers that need a hard failure use
	// PeriodSummary.Err.
	ErrOverDeducted = errors.New("deductions exceed gross pay")
)

// Err returns ErrOverDeducted when the summary was floored.
func (s PeriodSummary) Err() error {
	if s.OverDeducted {
		return ErrOverDeducted
	}
	return nil
}
