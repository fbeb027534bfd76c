package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

// StakeholderHandler handles property stakeholder HTTP requests.
type StakeholderHandler struct {
	service   *app.StakeholderService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewStakeholderHandler creates a new stakeholder handler.
func NewStakeholderHandler(svc *app.StakeholderService, v *validator.Validator, log *logger.Logger) *StakeholderHandler {
	return &StakeholderHandler{
		service:   svc,
		validator: v,
		logger:    log,
	}
}

// StakeholderResponse represents a stakeholder in API responses.
type StakeholderResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	Permission string    `json:"permission"`
	GrantedBy  string    `json:"granted_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toStakeholderResponse(s *stakeholder.Stakeholder) StakeholderResponse {
	resp := StakeholderResponse{
		ID:         s.ID().String(),
		PropertyID: s.PropertyID().String(),
		UserID:     s.UserID().String(),
		Status:     s.Status().String(),
		Permission: s.Permission().String(),
		CreatedAt:  s.CreatedAt(),
		UpdatedAt:  s.UpdatedAt(),
	}
	if grantedBy := s.GrantedBy(); grantedBy != nil {
		resp.GrantedBy = grantedBy.String()
	}
	return resp
}

// Grant handles POST /api/v1/properties/{id}/stakeholders
func (h *StakeholderHandler) Grant(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.GrantRoleInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	s, err := h.service.Grant(r.Context(), chi.URLParam(r, "id"), input, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Stakeholder", err)
		return
	}

	respondJSON(w, http.StatusCreated, toStakeholderResponse(s))
}

// Revoke handles DELETE /api/v1/properties/{id}/stakeholders/{userID}/{status}
// RemoveAll handles DELETE /api/v1/properties/{id}/stakeholders/{userID}
func (h *StakeholderHandler) RemoveAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	err := h.service.RemoveAll(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Stakeholder", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StakeholderHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	err := h.service.Revoke(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID"), chi.URLParam(r, "status"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Stakeholder", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/properties/{id}/stakeholders
func (h *StakeholderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	stakeholders, err := h.service.ListByProperty(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Stakeholder", err)
		return
	}

	data := make([]StakeholderResponse, len(stakeholders))
	for i, s := range stakeholders {
		data[i] = toStakeholderResponse(s)
	}

	respondJSON(w, http.StatusOK, ListResponse[StakeholderResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}
