package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/invitation"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

// InvitationHandler handles property invitation HTTP requests.
type InvitationHandler struct {
	service   *app.InvitationService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewInvitationHandler creates a new invitation handler.
func NewInvitationHandler(svc *app.InvitationService, v *validator.Validator, log *logger.Logger) *InvitationHandler {
	return &InvitationHandler{
		service:   svc,
		validator: v,
		logger:    log,
	}
}

// InvitationResponse represents an invitation in API responses. State is the
// effective state: a pending invitation past its expiry reads as expired even
// before the sweep job has marked it.
type InvitationResponse struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	Email      string     `json:"email"`
	Status     string     `json:"status"`
	Permission string     `json:"permission"`
	Token      string     `json:"token,omitempty"`
	State      string     `json:"state"`
	InvitedBy  string     `json:"invited_by"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toInvitationResponse(inv *invitation.Invitation, includeToken bool) InvitationResponse {
	resp := InvitationResponse{
		ID:         inv.ID().String(),
		PropertyID: inv.PropertyID().String(),
		Email:      inv.Email(),
		Status:     inv.Status().String(),
		Permission: inv.Permission().String(),
		State:      string(inv.EffectiveState(time.Now())),
		InvitedBy:  inv.InvitedBy().String(),
		ExpiresAt:  inv.ExpiresAt(),
		ResolvedAt: inv.ResolvedAt(),
		CreatedAt:  inv.CreatedAt(),
	}
	if includeToken {
		resp.Token = inv.Token()
	}
	return resp
}

// Create handles POST /api/v1/properties/{id}/invitations
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.CreateInvitationInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	inv, err := h.service.Create(r.Context(), chi.URLParam(r, "id"), input, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Invitation", err)
		return
	}

	respondJSON(w, http.StatusCreated, toInvitationResponse(inv, true))
}

// GetByToken handles GET /api/v1/invitations/{token}
func (h *InvitationHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		handleServiceError(w, h.logger, "Invitation", err)
		return
	}

	respondJSON(w, http.StatusOK, toInvitationResponse(inv, false))
}

// Accept handles POST /api/v1/invitations/{token}/accept
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	inv, err := h.service.Accept(r.Context(), chi.URLParam(r, "token"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Invitation", err)
		return
	}

	respondJSON(w, http.StatusOK, toInvitationResponse(inv, false))
}

// Decline handles POST /api/v1/invitations/{token}/decline
func (h *InvitationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Decline(r.Context(), chi.URLParam(r, "token"), userID); err != nil {
		handleServiceError(w, h.logger, "Invitation", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Revoke handles DELETE /api/v1/properties/{id}/invitations/{invitationID}
func (h *InvitationHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Revoke(r.Context(), chi.URLParam(r, "invitationID"), userID); err != nil {
		handleServiceError(w, h.logger, "Invitation", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByProperty handles GET /api/v1/properties/{id}/invitations
func (h *InvitationHandler) ListByProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	invitations, err := h.service.ListByProperty(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Invitation", err)
		return
	}

	data := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		data[i] = toInvitationResponse(inv, true)
	}

	respondJSON(w, http.StatusOK, ListResponse[InvitationResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}

// ListMine handles GET /api/v1/invitations
func (h *InvitationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	invitations, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Invitation", err)
		return
	}

	data := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		data[i] = toInvitationResponse(inv, true)
	}

	respondJSON(w, http.StatusOK, ListResponse[InvitationResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}
