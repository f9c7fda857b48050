package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/opsdesk/payroll-backend-go/internal/domain/bonus"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/jwt"
)

type BonusHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	ListWithdrawals(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	ListAccruals(w http.ResponseWriter, r *http.Request)
	ManualAccrue(w http.ResponseWriter, r *http.Request)
	RunAccrual(w http.ResponseWriter, r *http.Request)
}

type bonusHandlerImpl struct {
	bonusService bonus.BonusService
}

func NewBonusHandler(bonusService bonus.BonusService) BonusHandler {
	return &bonusHandlerImpl{bonusService: bonusService}
}

// GetBalance handles GET /employees/{employeeId}/bonus/balance
func (h *bonusHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	balance, err := h.bonusService.GetBalance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// ListWithdrawals handles GET /employees/{employeeId}/bonus/withdrawals
func (h *bonusHandlerImpl) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	withdrawals, err := h.bonusService.ListWithdrawals(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, withdrawals, response.ListMeta{})
}

// Withdraw handles POST /employees/{employeeId}/bonus/withdrawals
func (h *bonusHandlerImpl) Withdraw(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	var req bonus.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Withdraw decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.bonusService.Withdraw(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bonus withdrawn successfully", result)
}

// ListAccruals handles GET /employees/{employeeId}/bonus/accruals
func (h *bonusHandlerImpl) ListAccruals(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	accruals, err := h.bonusService.ListAccruals(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, accruals, response.ListMeta{})
}

// ManualAccrue handles POST /employees/{employeeId}/bonus/accruals
func (h *bonusHandlerImpl) ManualAccrue(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	var req bonus.ManualAccrueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ManualAccrue decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.bonusService.ManualAccrue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bonus accrued successfully", result)
}

// RunAccrual handles POST /bonus/accruals/run for the caller's company.
func (h *bonusHandlerImpl) RunAccrual(w http.ResponseWriter, r *http.Request) {
	actor, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req bonus.RunAccrualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RunAccrual decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	start, end, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.bonusService.AccruePeriod(r.Context(), actor.CompanyID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bonus accrual completed", result)
}
