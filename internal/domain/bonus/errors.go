package bonus

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("withdrawal exceeds bonus balance")
	ErrInvariantViolation  = errors.New("bonus ledger invariant violated")
	ErrAlreadyAccrued      = errors.New("bonus already accrued for this period")
)
