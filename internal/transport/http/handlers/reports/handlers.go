package reportshandler

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"npsportal/internal/domain/auth"
	"npsportal/internal/domain/directory"
	"npsportal/internal/domain/reports"
	"npsportal/internal/transport/http/api"
	"npsportal/internal/transport/http/middleware"
	"npsportal/internal/transport/http/shared"
)

type Handler struct {
	Service   *reports.Service
	Directory *directory.Service
}

func NewHandler(service *reports.Service, dir *directory.Service) *Handler {
	return &Handler{Service: service, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		guard := middleware.RequireRole(auth.RoleDepartmentHead, auth.RoleAdmin)
		r.With(guard).Get("/daily", h.handleDailySummary)
		r.With(guard).Get("/attendance", h.handleAttendanceDetail)
		r.With(guard).Get("/attendance/export", h.handleAttendanceExport)
	})
}

// scopeDepartment narrows the report to the caller's own department when the
// caller is a department head.
func (h *Handler) scopeDepartment(w http.ResponseWriter, r *http.Request, reqID string) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return "", false
	}

	requested := r.URL.Query().Get("departmentId")
	if user.Role != auth.RoleDepartmentHead {
		return requested, true
	}

	own, err := h.Directory.DepartmentHeadedBy(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusForbidden, "forbidden", "not the head of any department", reqID)
		return "", false
	}
	if requested != "" && requested != own.ID {
		api.Fail(w, http.StatusForbidden, "forbidden", "reports limited to own department", reqID)
		return "", false
	}
	return own.ID, true
}

func (h *Handler) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	departmentID, ok := h.scopeDepartment(w, r, reqID)
	if !ok {
		return
	}

	now := h.Service.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date", reqID)
			return
		}
		date = parsed
	}

	summary, err := h.Service.DailySummary(r.Context(), date, departmentID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to build summary", reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleAttendanceDetail(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	departmentID, ok := h.scopeDepartment(w, r, reqID)
	if !ok {
		return
	}

	from, to, err := shared.DateRange(r, h.Service.Now())
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date range", reqID)
		return
	}

	rows, err := h.Service.Detail(r.Context(), from, to, departmentID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to build report", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleAttendanceExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	departmentID, ok := h.scopeDepartment(w, r, reqID)
	if !ok {
		return
	}

	from, to, err := shared.DateRange(r, h.Service.Now())
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date range", reqID)
		return
	}

	rows, err := h.Service.Detail(r.Context(), from, to, departmentID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to build report", reqID)
		return
	}

	title := from.Format("2006-01-02") + " to " + to.Format("2006-01-02")
	switch r.URL.Query().Get("format") {
	case "pdf":
		pdf, err := reports.RenderPDF(title, rows)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "export_error", "failed to render pdf", reqID)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="attendance.pdf"`)
		_, _ = w.Write(pdf)
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
		writer := csv.NewWriter(w)
		_ = writer.Write([]string{"employee_number", "last_name", "first_name", "department", "date", "time_in", "time_out", "status", "worked"})
		for _, row := range rows {
			record := []string{
				row.EmployeeNumber, row.LastName, row.FirstName, row.DepartmentName,
				row.Date.Format("2006-01-02"), formatClock(row.TimeIn), formatClock(row.TimeOut),
				row.Status, row.WorkedHours,
			}
			_ = writer.Write(record)
		}
		writer.Flush()
	}
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
