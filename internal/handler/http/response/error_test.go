package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/domain/employee"
	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/domain/user"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "date", Message: "is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"invalid amount", fmt.Errorf("withdraw: %w", bonus.ErrInvalidAmount), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"insufficient balance", fmt.Errorf("wrapped: %w", bonus.ErrInsufficientBalance), http.StatusBadRequest, "BAD_REQUEST"},
		{"invariant", bonus.ErrInvariantViolation, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"employee inactive", fmt.Errorf("failed to issue loan: %w", employee.ErrEmployeeInactive), http.StatusConflict, "CONFLICT"},
		{"loan closed", loan.ErrLoanAlreadyClosed, http.StatusConflict, "CONFLICT"},
		{"forbidden", user.ErrInsufficientPermissions, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}
