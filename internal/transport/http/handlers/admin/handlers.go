package adminhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"npsportal/internal/domain/audit"
	"npsportal/internal/domain/auth"
	"npsportal/internal/platform/metrics"
	"npsportal/internal/transport/http/api"
	"npsportal/internal/transport/http/middleware"
	"npsportal/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *auth.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/accounts", h.handleCreateAccount)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/audit", h.handleListAudit)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/metrics", h.handleMetrics)
	})
}

type createAccountRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Address       string `json:"address"`
	Gender        string `json:"gender"`
	Birthday      string `json:"birthday"`
	TINNumber     string `json:"tinNumber"`
	GSISNumber    string `json:"gsisNumber"`
	PagibigNumber string `json:"pagibigNumber"`
	Role          string `json:"role"`
	DepartmentID  string `json:"departmentId"`
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	role := payload.Role
	if role == "" {
		role = auth.RoleEmployee
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	v.Enum("role", role, auth.AllRoles, "unknown role")
	var birthday time.Time
	if payload.Birthday != "" {
		if parsed, ok := v.Date("birthday", payload.Birthday); ok {
			birthday = parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	// Only a super admin may mint admin-level accounts.
	if (role == auth.RoleAdmin || role == auth.RoleSuperAdmin) && actor.Role != auth.RoleSuperAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "super admin role required", reqID)
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "hash_error", "failed to create account", reqID)
		return
	}

	user, err := h.Service.CreateUser(r.Context(), auth.NewAccount{
		Username:      payload.Username,
		PasswordHash:  hash,
		Role:          role,
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		Address:       payload.Address,
		Gender:        payload.Gender,
		Birthday:      birthday,
		TINNumber:     payload.TINNumber,
		GSISNumber:    payload.GSISNumber,
		PagibigNumber: payload.PagibigNumber,
		DepartmentID:  payload.DepartmentID,
	})
	if errors.Is(err, auth.ErrUsernameTaken) {
		api.Fail(w, http.StatusConflict, "username_taken", "username already taken", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to create account", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), actor.UserID, "account.create", "user", user.ID, reqID, shared.ClientIP(r), map[string]string{
		"username": user.Username,
		"role":     user.Role,
	}); err != nil {
		slog.Warn("audit account.create failed", "err", err)
	}

	api.Created(w, user, reqID)
}

func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if h.Audit == nil || !h.Audit.Enabled {
		api.Fail(w, http.StatusNotFound, "not_found", "audit trail disabled", reqID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	events, err := h.Audit.List(r.Context(), r.URL.Query().Get("action"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to list audit events", reqID)
		return
	}
	api.Success(w, events, reqID)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "metrics disabled", reqID)
		return
	}
	api.Success(w, h.Metrics.Snapshot(), reqID)
}
