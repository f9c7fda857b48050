package http

import (
	"net/http"

	"github.com/opsdesk/payroll-backend-go/internal/domain/performance"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
)

type PerformanceHandler interface {
	GetScore(w http.ResponseWriter, r *http.Request)
	GetLeaderboard(w http.ResponseWriter, r *http.Request)
}

type performanceHandlerImpl struct {
	performanceService performance.PerformanceService
}

func NewPerformanceHandler(performanceService performance.PerformanceService) PerformanceHandler {
	return &performanceHandlerImpl{performanceService: performanceService}
}

// GetScore handles GET /employees/{employeeId}/performance/score
func (h *performanceHandlerImpl) GetScore(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	startStr, endStr := periodQuery(r)

	req := performance.PeriodRequest{PeriodStart: startStr, PeriodEnd: endStr}
	start, end, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.performanceService.ComputeScore(r.Context(), employeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, performance.NewScoreResponse(record))
}

// GetLeaderboard handles GET /performance/leaderboard
func (h *performanceHandlerImpl) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	startStr, endStr := periodQuery(r)

	req := performance.PeriodRequest{PeriodStart: startStr, PeriodEnd: endStr}
	start, end, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	lb, err := h.performanceService.ComputeLeaderboard(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, performance.NewLeaderboardResponse(lb))
}
