package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"npsportal/internal/domain/auth"
	"npsportal/internal/transport/http/api"
	"npsportal/internal/transport/http/middleware"
	"npsportal/internal/transport/http/shared"
)

type Handler struct {
	Service  *auth.Service
	Secret   string
	TokenTTL time.Duration
	Secure   bool
}

func NewHandler(service *auth.Service, secret string, ttl time.Duration, secure bool) *Handler {
	return &Handler{Service: service, Secret: secret, TokenTTL: ttl, Secure: secure}
}

type signupRequest struct {
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
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload signupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	v.Required("address", payload.Address, "address is required")
	v.Required("gender", payload.Gender, "gender is required")
	v.Required("tinNumber", payload.TINNumber, "TIN number is required")
	v.Required("gsisNumber", payload.GSISNumber, "GSIS number is required")
	v.Required("pagibigNumber", payload.PagibigNumber, "Pag-IBIG number is required")
	v.Required("birthday", payload.Birthday, "birthday is required")
	var birthday time.Time
	if payload.Birthday != "" {
		if parsed, ok := v.Date("birthday", payload.Birthday); ok {
			birthday = parsed
		}
	}
	if v.Reject(w, reqID) {
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
		Role:          auth.RoleEmployee,
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		Address:       payload.Address,
		Gender:        payload.Gender,
		Birthday:      birthday,
		TINNumber:     payload.TINNumber,
		GSISNumber:    payload.GSISNumber,
		PagibigNumber: payload.PagibigNumber,
	})
	if errors.Is(err, auth.ErrUsernameTaken) {
		api.Fail(w, http.StatusConflict, "username_taken", "username already taken", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to create account", reqID)
		return
	}

	if !h.issueCookie(w, user.ID, user.Username, user.Role, reqID) {
		return
	}
	api.Created(w, user, reqID)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	cred, err := h.Service.VerifyCredentials(r.Context(), payload.Username, payload.Password)
	if errors.Is(err, auth.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "sign-in failed", reqID)
		return
	}

	if !h.issueCookie(w, cred.UserID, cred.Username, cred.Role, reqID) {
		return
	}
	api.Created(w, map[string]string{
		"id":       cred.UserID,
		"username": cred.Username,
		"role":     cred.Role,
	}, reqID)
}

// HandleLogout clears the cookie; tokens are stateless so there is nothing
// to revoke server-side.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	profile, err := h.Service.GetUser(r.Context(), user.UserID)
	if errors.Is(err, auth.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to load profile", reqID)
		return
	}
	api.Success(w, profile, reqID)
}

func (h *Handler) issueCookie(w http.ResponseWriter, userID, username, role, reqID string) bool {
	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: userID, Username: username, Role: role}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	return true
}
