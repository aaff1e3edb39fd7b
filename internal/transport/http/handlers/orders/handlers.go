package ordershandler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"npsportal/internal/domain/auth"
	"npsportal/internal/domain/orders"
	"npsportal/internal/platform/storage"
	"npsportal/internal/transport/http/api"
	"npsportal/internal/transport/http/middleware"
	"npsportal/internal/transport/http/shared"
)

const maxLetterOrderBytes = 8 * 1024 * 1024

type Handler struct {
	Store   orders.StoreAPI
	Objects storage.ObjectStore

	Now func() time.Time
}

func NewHandler(store orders.StoreAPI, objects storage.ObjectStore) *Handler {
	return &Handler{Store: store, Objects: objects, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.With(middleware.RequireRole()).Post("/", h.handleUpload)
		r.With(middleware.RequireRole()).Get("/", h.handleList)
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	if err := r.ParseMultipartForm(maxLetterOrderBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "no file provided", reqID)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "no file provided", reqID)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLetterOrderBytes+1))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read file", reqID)
		return
	}
	if len(data) > maxLetterOrderBytes {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "file too large", reqID)
		return
	}

	fileName := filepath.Base(header.Filename)
	key := fmt.Sprintf("letters/%d-%s", h.Now().Unix(), fileName)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.Objects.Put(r.Context(), key, contentType, data)
	if err != nil {
		api.Fail(w, http.StatusBadGateway, "upstream_error", "failed to store file", reqID)
		return
	}

	order, err := h.Store.Create(r.Context(), user.UserID, fileName, url)
	if err != nil {
		// Known gap: the object stays behind when the record insert fails.
		slog.Warn("letter order record failed after upload", "key", key, "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to record letter order", reqID)
		return
	}
	api.Created(w, order, reqID)
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
		if !auth.Allowed(user.Role, auth.RoleAdmin) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another employee's letter orders", reqID)
			return
		}
		targetID = requested
	}

	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Store.ListByUser(r.Context(), targetID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upstream_error", "failed to list letter orders", reqID)
		return
	}
	api.Success(w, list, reqID)
}
