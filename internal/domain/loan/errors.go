package loan

import "errors"

var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrNoActiveLoan      = errors.New("employee has no active loan")
	ErrLoanAlreadyClosed = errors.New("loan is already closed")
	ErrInvalidAmount     = errors.New("loan amount must be greater than zero")
	ErrActiveLoanExists  = errors.New("employee already has an active loan")
)
