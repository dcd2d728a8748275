package user

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	Create(ctx context.Context, dto *CreateUserDTO) (*User, error)
	Update(ctx context.Context, userID string, dto *UpdateUserDTO) (*User, error)
	Delete(ctx context.Context, userID string) error
	Export(ctx context.Context) ([]byte, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListUsers handles GET /users. Each user embeds its department and token.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAll(r.Context())
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, users, "")
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, created, "User created successfully")
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, found, "")
}

// UpdateUser handles PUT /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	updated, err := h.Service.Update(r.Context(), id, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, updated, "User updated successfully")
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, DeleteUserResponse{UserID: id, Deleted: true}, "User deleted successfully")
}

// ExportUsers handles GET /users/export
func (h *Handler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Export(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", store.Now().Format("20060102"))
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("ExportUsers: failed to write workbook", "error", err)
	}
}
