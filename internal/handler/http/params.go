package http

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/export"
	"github.com/opsdesk/payroll-backend-go/internal/pkg/validator"
)

func employeeIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	employeeID := chi.URLParam(r, "employeeId")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Invalid employee ID", nil)
		return "", false
	}
	return employeeID, true
}

func dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, ok := validator.IsValidDate(chi.URLParam(r, "date"))
	if !ok {
		response.ValidationError(w, map[string]string{"date": "must be in YYYY-MM-DD format"})
		return time.Time{}, false
	}
	return date, true
}

// optionalDate parses an optional query date. A present but malformed value
// is reported as a validation error.
func optionalDate(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	d, ok := validator.IsValidDate(raw)
	if !ok {
		response.ValidationError(w, map[string]string{name: "must be in YYYY-MM-DD format"})
		return nil, false
	}
	return &d, true
}

func periodQuery(r *http.Request) (string, string) {
	q := r.URL.Query()
	return q.Get("start"), q.Get("end")
}

// writeExport renders rows fully before writing so a marshal failure can
// still produce a JSON error.
func writeExport(w http.ResponseWriter, r *http.Request, base string, rows any) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(base)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
