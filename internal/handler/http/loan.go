package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opsdesk/payroll-backend-go/internal/domain/loan"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
)

type LoanHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetActive(w http.ResponseWriter, r *http.Request)
	IssueOrUpdate(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
}

type loanHandlerImpl struct {
	loanService loan.LoanService
}

func NewLoanHandler(loanService loan.LoanService) LoanHandler {
	return &loanHandlerImpl{loanService: loanService}
}

// List handles GET /employees/{employeeId}/loans
func (h *loanHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	loans, err := h.loanService.ListLoans(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, loans, response.ListMeta{})
}

// GetActive handles GET /employees/{employeeId}/loans/active. The data is
// null when the employee has no active loan.
func (h *loanHandlerImpl) GetActive(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	active, err := h.loanService.GetActiveLoan(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if active == nil {
		response.SuccessWithMessage(w, "Employee has no active loan", nil)
		return
	}
	response.Success(w, active)
}

// IssueOrUpdate handles POST /employees/{employeeId}/loans
func (h *loanHandlerImpl) IssueOrUpdate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	var req loan.IssueOrUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("IssueOrUpdateLoan decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.loanService.IssueOrUpdate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Created {
		response.Created(w, "Loan issued successfully", result)
		return
	}
	response.SuccessWithMessage(w, "Active loan updated successfully", result)
}

// Close handles POST /loans/{id}/close
func (h *loanHandlerImpl) Close(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(loanID) {
		response.BadRequest(w, "Invalid loan ID", nil)
		return
	}

	closed, err := h.loanService.Close(r.Context(), loanID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan closed successfully", closed)
}
