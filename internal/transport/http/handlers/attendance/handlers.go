package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"npsportal/internal/domain/attendance"
	"npsportal/internal/domain/auth"
	"npsportal/internal/transport/http/api"
	"npsportal/internal/transport/http/middleware"
	"npsportal/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Users   auth.StoreAPI
}

func NewHandler(service *attendance.Service, users auth.StoreAPI) *Handler {
	return &Handler{Service: service, Users: users}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequireRole()).Post("/time-in", h.handleTimeIn)
		r.With(middleware.RequireRole()).Post("/time-out", h.handleTimeOut)
		r.With(middleware.RequireRole()).Get("/today", h.handleToday)
		r.With(middleware.RequireRole()).Get("/", h.handleList)
		r.With(middleware.RequireRole()).Get("/badge", h.handleBadge)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/stations", h.handleListStations)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/stations/{stationID}/qr", h.handleStationQR)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/stations/{stationID}/code", h.handleStationCode)
	})
}

func (h *Handler) handleTimeIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload attendance.TimeInRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
			return
		}
	}

	record, err := h.Service.TimeIn(r.Context(), user.UserID, payload)
	if err != nil {
		failAttendance(w, err, reqID)
		return
	}
	api.Created(w, record, reqID)
}

func (h *Handler) handleTimeOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	record, err := h.Service.TimeOut(r.Context(), user.UserID)
	if err != nil {
		failAttendance(w, err, reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	record, err := h.Service.Today(r.Context(), user.UserID)
	if errors.Is(err, attendance.ErrNotYetTimedIn) {
		api.Fail(w, http.StatusNotFound, "not_found", "no attendance record for today", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to load attendance", reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	targetID := user.UserID
	if requested := r.URL.Query().Get("userId"); requested != "" && requested != user.UserID {
		if !auth.Allowed(user.Role, auth.RoleAdmin, auth.RoleDepartmentHead) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another employee's attendance", reqID)
			return
		}
		targetID = requested
	}

	from, to, err := shared.DateRange(r, h.Service.Now())
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date range", reqID)
		return
	}

	records, err := h.Service.Range(r.Context(), targetID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to list attendance", reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleBadge(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	profile, err := h.Users.GetUser(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to load profile", reqID)
		return
	}

	png, err := attendance.BadgePNG(profile.EmployeeNumber, 256)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "badge_error", "failed to render badge", reqID)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *Handler) handleListStations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	stations, err := h.Service.Stations(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to list stations", reqID)
		return
	}
	api.Success(w, stations, reqID)
}

func (h *Handler) handleStationQR(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	station, err := h.Service.Station(r.Context(), chi.URLParam(r, "stationID"))
	if errors.Is(err, attendance.ErrUnknownStation) {
		api.Fail(w, http.StatusNotFound, "not_found", "unknown station", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to load station", reqID)
		return
	}

	png, err := attendance.BadgePNG("station:"+station.ID, 256)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "badge_error", "failed to render station code", reqID)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *Handler) handleStationCode(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	station, err := h.Service.Station(r.Context(), chi.URLParam(r, "stationID"))
	if errors.Is(err, attendance.ErrUnknownStation) {
		api.Fail(w, http.StatusNotFound, "not_found", "unknown station", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to load station", reqID)
		return
	}

	code, err := attendance.CurrentKioskCode(station, h.Service.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "kiosk_error", "failed to generate kiosk code", reqID)
		return
	}
	api.Success(w, map[string]string{"stationId": station.ID, "code": code}, reqID)
}

func failAttendance(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, attendance.ErrAlreadyLoggedIn):
		api.Fail(w, http.StatusConflict, "already_logged_in", "already timed in for today", reqID)
	case errors.Is(err, attendance.ErrAlreadyLoggedOut):
		api.Fail(w, http.StatusConflict, "already_logged_out", "already timed out for today", reqID)
	case errors.Is(err, attendance.ErrNotYetTimedIn):
		api.Fail(w, http.StatusConflict, "not_yet_timed_in", "no time-in recorded for today", reqID)
	case errors.Is(err, attendance.ErrUnknownStation):
		api.Fail(w, http.StatusNotFound, "not_found", "unknown station", reqID)
	case errors.Is(err, attendance.ErrInvalidKioskCode):
		api.Fail(w, http.StatusForbidden, "invalid_kiosk_code", "kiosk code rejected", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "attendance operation failed", reqID)
	}
}
