package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/opsdesk/payroll-backend-go/internal/domain/auth"
	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/domain/payroll"
	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/export"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingCompany):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, err.Error())

	// Employee
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, "Employee is not active")

	// Timesheet
	case errors.Is(err, timesheet.ErrEntryNotFound):
		NotFound(w, "Timesheet entry not found")
	case errors.Is(err, timesheet.ErrEmptyEntryBatch):
		ValidationError(w, map[string]string{"entries": err.Error()})

	// Bonus
	case errors.Is(err, bonus.ErrInvalidAmount),
		errors.Is(err, loan.ErrInvalidAmount),
		errors.Is(err, payroll.ErrInvalidAmount):
		ValidationError(w, map[string]string{"amount": err.Error()})
	case errors.Is(err, bonus.ErrInsufficientBalance):
		BadRequest(w, "Insufficient bonus balance", nil)
	case errors.Is(err, bonus.ErrAlreadyAccrued):
		Conflict(w, "Bonus already accrued for this period")
	case errors.Is(err, bonus.ErrInvariantViolation):
		slog.Error("Bonus ledger invariant violated", "error", err)
		InternalServerError(w, "Bonus ledger is inconsistent")

	// Loan
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrNoActiveLoan):
		NotFound(w, "Employee has no active loan")
	case errors.Is(err, loan.ErrLoanAlreadyClosed):
		Conflict(w, "Loan is already closed")
	case errors.Is(err, loan.ErrActiveLoanExists):
		Conflict(w, "Employee already has an active loan")

	case errors.Is(err, export.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
