package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/opsdesk/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	OpenPeriod(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	DailyEarnings(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

// List handles GET /employees/{employeeId}/timesheets
func (h *timesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	start, end := periodQuery(r)

	entries, err := h.timesheetService.ListEntries(r.Context(), timesheet.ListEntriesRequest{
		EmployeeID:  employeeID,
		PeriodStart: start,
		PeriodEnd:   end,
		DayType:     r.URL.Query().Get("day_type"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, entries, response.ListMeta{PeriodStart: start, PeriodEnd: end})
}

// Save handles PUT /employees/{employeeId}/timesheets. Valid rows are saved
// even when others fail validation; the response lists both.
func (h *timesheetHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	var req timesheet.SaveEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SaveTimesheet decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.timesheetService.SaveEntries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if len(result.Errors) > 0 {
		if len(result.Saved) == 0 {
			response.HandleError(w, result.Errors)
			return
		}
		response.SuccessWithMessage(w, "Some timesheet entries were not saved", result)
		return
	}
	response.SuccessWithMessage(w, "Timesheet saved successfully", result)
}

// OpenPeriod handles POST /employees/{employeeId}/timesheets/open-period
func (h *timesheetHandlerImpl) OpenPeriod(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	var req timesheet.OpenPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("OpenPeriod decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	result, err := h.timesheetService.OpenPeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet period opened", result)
}

// Get handles GET /employees/{employeeId}/timesheets/{date}
func (h *timesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	entry, err := h.timesheetService.GetEntry(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entry)
}

// DailyEarnings handles GET /employees/{employeeId}/timesheets/{date}/earnings
func (h *timesheetHandlerImpl) DailyEarnings(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	earnings, err := h.timesheetService.DailyEarnings(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, earnings)
}
