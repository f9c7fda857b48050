package http

import (
	"net/http"

	"github.com/opsdesk/payroll-backend-go/internal/domain/payroll"
	"github.com/opsdesk/payroll-backend-go/internal/domain/performance"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	// Leaderboard export (csv|xlsx)
	ExportLeaderboard(w http.ResponseWriter, r *http.Request)

	// Payroll summaries export (csv|xlsx)
	ExportPayrollSummaries(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	performanceService performance.PerformanceService
	payrollService     payroll.PayrollService
}

func NewReportHandler(performanceService performance.PerformanceService, payrollService payroll.PayrollService) ReportHandler {
	return &reportHandlerImpl{
		performanceService: performanceService,
		payrollService:     payrollService,
	}
}

// ExportLeaderboard handles GET /performance/leaderboard/export
func (h *reportHandlerImpl) ExportLeaderboard(w http.ResponseWriter, r *http.Request) {
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

	writeExport(w, r, "leaderboard_"+start.Format(validator.DateLayout)+"_"+end.Format(validator.DateLayout),
		performance.NewLeaderboardRows(lb))
}

// ExportPayrollSummaries handles GET /payroll/summaries/export
func (h *reportHandlerImpl) ExportPayrollSummaries(w http.ResponseWriter, r *http.Request) {
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

	rows := make([]payroll.SummaryRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, payroll.NewSummaryRow(s))
	}
	writeExport(w, r, "payroll_"+start.Format(validator.DateLayout)+"_"+end.Format(validator.DateLayout), rows)
}
