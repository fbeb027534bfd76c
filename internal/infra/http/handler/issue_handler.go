package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/flag"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

// IssueHandler handles property issue HTTP requests.
type IssueHandler struct {
	service   *app.FlagService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewIssueHandler creates a new issue handler.
func NewIssueHandler(svc *app.FlagService, v *validator.Validator, log *logger.Logger) *IssueHandler {
	return &IssueHandler{
		service:   svc,
		validator: v,
		logger:    log,
	}
}

// IssueResponse represents an issue in API responses.
type IssueResponse struct {
	ID          string     `json:"id"`
	PropertyID  string     `json:"property_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Severity    string     `json:"severity"`
	Resolved    bool       `json:"resolved"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	RaisedBy    string     `json:"raised_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toIssueResponse(f *flag.Flag) IssueResponse {
	return IssueResponse{
		ID:          f.ID().String(),
		PropertyID:  f.PropertyID().String(),
		Title:       f.Title(),
		Description: f.Description(),
		Severity:    f.Severity().String(),
		Resolved:    f.IsResolved(),
		ResolvedAt:  f.ResolvedAt(),
		RaisedBy:    f.RaisedBy().String(),
		CreatedAt:   f.CreatedAt(),
		UpdatedAt:   f.UpdatedAt(),
	}
}

// Raise handles POST /api/v1/properties/{id}/issues
func (h *IssueHandler) Raise(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.RaiseFlagInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	f, err := h.service.Raise(r.Context(), chi.URLParam(r, "id"), input, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Issue", err)
		return
	}

	respondJSON(w, http.StatusCreated, toIssueResponse(f))
}

// Resolve handles POST /api/v1/issues/{id}/resolve
func (h *IssueHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	f, err := h.service.Resolve(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Issue", err)
		return
	}

	respondJSON(w, http.StatusOK, toIssueResponse(f))
}

// Delete handles DELETE /api/v1/issues/{id}
func (h *IssueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.logger, "Issue", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/properties/{id}/issues
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	includeResolved := false
	if v := parseQueryBool(r.URL.Query().Get("include_resolved")); v != nil {
		includeResolved = *v
	}

	issues, err := h.service.List(r.Context(), chi.URLParam(r, "id"), userID, includeResolved)
	if err != nil {
		handleServiceError(w, h.logger, "Issue", err)
		return
	}

	data := make([]IssueResponse, len(issues))
	for i, f := range issues {
		data[i] = toIssueResponse(f)
	}

	respondJSON(w, http.StatusOK, ListResponse[IssueResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}
