package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/opsdesk/payroll-backend-go/internal/domain/payroll"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
	ListSummaries(w http.ResponseWriter, r *http.Request)
	ListDeductions(w http.ResponseWriter, r *http.Request)
	CreateDeduction(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// GetSummary handles GET /employees/{employeeId}/payroll/summary
func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	startStr, endStr := periodQuery(r)

	req := payroll.PeriodRequest{EmployeeID: employeeID, PeriodStart: startStr, PeriodEnd: endStr}
	start, end, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.payrollService.ComputePeriodSummary(r.Context(), employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPeriodSummaryResponse(summary))
}

// ListSummaries handles GET /payroll/summaries
func (h *payrollHandlerImpl) ListSummaries(w http.ResponseWriter, r *http.Request) {
	startStr, endStr := periodQuery(r)

	req := payroll.PeriodRequest{PeriodStart: startStr, PeriodEnd: endStr}
	start, end, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summaries, err := h.payrollService.ComputeCompanySummaries(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]payroll.PeriodSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, payroll.NewPeriodSummaryResponse(s))
	}
	response.List(w, result, response.ListMeta{PeriodStart: startStr, PeriodEnd: endStr})
}

// ListDeductions handles GET /employees/{employeeId}/deductions
func (h *payrollHandlerImpl) ListDeductions(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	start, ok := optionalDate(w, r, "start")
	if !ok {
		return
	}
	end, ok := optionalDate(w, r, "end")
	if !ok {
		return
	}

	deductions, err := h.payrollService.ListDeductions(r.Context(), employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	meta := response.ListMeta{}
	if start != nil {
		meta.PeriodStart = start.Format(validator.DateLayout)
	}
	if end != nil {
		meta.PeriodEnd = end.Format(validator.DateLayout)
	}
	response.List(w, deductions, meta)
}

// CreateDeduction handles POST /employees/{employeeId}/deductions
func (h *payrollHandlerImpl) CreateDeduction(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	var req payroll.CreateDeductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateDeduction decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.payrollService.CreateDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deduction recorded successfully", result)
}
