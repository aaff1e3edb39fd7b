package directoryhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"npsportal/internal/domain/auth"
	"npsportal/internal/domain/directory"
	"npsportal/internal/transport/http/api"
	"npsportal/internal/transport/http/middleware"
	"npsportal/internal/transport/http/shared"
)

type Handler struct {
	Service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/directory", func(r chi.Router) {
		r.With(middleware.RequireRole()).Get("/departments", h.handleListDepartments)
		r.With(middleware.RequireRole(auth.RoleDepartmentHead, auth.RoleAdmin)).Get("/departments/{departmentID}/employees", h.handleListDepartmentEmployees)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/employees", h.handleListEmployees)
	})
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to list departments", reqID)
		return
	}
	api.Success(w, departments, reqID)
}

func (h *Handler) handleListDepartmentEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	departmentID := chi.URLParam(r, "departmentID")

	// Department heads only see their own department; admins see any.
	if user.Role == auth.RoleDepartmentHead {
		own, err := h.Service.DepartmentHeadedBy(r.Context(), user.UserID)
		if err != nil || own.ID != departmentID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not the head of this department", reqID)
			return
		}
	}

	page := shared.ParsePagination(r, 50, 200)
	employees, err := h.Service.ListEmployees(r.Context(), departmentID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	employees, err := h.Service.ListEmployees(r.Context(), r.URL.Query().Get("departmentId"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}
