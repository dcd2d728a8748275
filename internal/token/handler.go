package token

import (
	"context"
	"net/http"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll(ctx context.Context) ([]*Token, error)
	GetByID(ctx context.Context, tokenID string) (*Token, error)
	Create(ctx context.Context, dto *CreateTokenDTO) (*Token, error)
	VerifyPassword(ctx context.Context, tokenID string, dto *VerifyPasswordDTO) (bool, error)
	Delete(ctx context.Context, tokenID string) error
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

// ListTokens handles GET /tokens
func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.Service.GetAll(r.Context())
	if err != nil {
		h.Logger.Error("ListTokens: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, tokens, "")
}

// CreateToken handles POST /tokens
func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var dto CreateTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, created, "Token created successfully")
}

// GetToken handles GET /tokens/{id}
func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, found, "")
}

// VerifyPassword handles POST /tokens/{id}/verify-password
func (h *Handler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto VerifyPasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	valid, err := h.Service.VerifyPassword(r.Context(), id, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, VerifyPasswordResponse{TokenID: id, Valid: valid}, "")
}

// DeleteToken handles DELETE /tokens/{id}
func (h *Handler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, DeleteTokenResponse{TokenID: id, Deleted: true}, "Token deleted successfully")
}
