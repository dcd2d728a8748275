package department

import (
	"context"
	"net/http"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll(ctx context.Context) ([]*Department, error)
	GetByID(ctx context.Context, id string) (*Department, error)
	Create(ctx context.Context, dto *CreateDepartmentDTO) (*Department, error)
	Update(ctx context.Context, id string, dto *UpdateDepartmentDTO) (*Department, error)
	Delete(ctx context.Context, id string) error
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

// ListDepartments handles GET /departments
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.GetAll(r.Context())
	if err != nil {
		h.Logger.Error("ListDepartments: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, departments, "")
}

// CreateDepartment handles POST /departments
func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto CreateDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, created, "Department created successfully")
}

// GetDepartment handles GET /departments/{id}
func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, found, "")
}

// UpdateDepartment handles PUT /departments/{id}
func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateDepartmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	updated, err := h.Service.Update(r.Context(), id, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, updated, "Department updated successfully")
}

// DeleteDepartment handles DELETE /departments/{id}
func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, DeleteDepartmentResponse{ID: id, Deleted: true}, "Department deleted successfully")
}
