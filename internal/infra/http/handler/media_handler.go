package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/media"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

// MediaHandler handles property media HTTP requests.
type MediaHandler struct {
	service    *app.MediaService
	properties *app.PropertyService
	validator  *validator.Validator
	logger     *logger.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(svc *app.MediaService, properties *app.PropertyService, v *validator.Validator, log *logger.Logger) *MediaHandler {
	return &MediaHandler{
		service:    svc,
		properties: properties,
		validator:  v,
		logger:     log,
	}
}

// MediaResponse represents a media item in API responses. URL is a
// pre-signed GET URL and expires; clients must not persist it.
type MediaResponse struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Kind        string    `json:"kind"`
	Caption     string    `json:"caption,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
	URL         string    `json:"url,omitempty"`
}

// MediaTicketResponse represents a started media upload.
type MediaTicketResponse struct {
	Media     MediaResponse `json:"media"`
	UploadURL string        `json:"upload_url"`
}

func toMediaResponse(m *media.Media, url string) MediaResponse {
	return MediaResponse{
		ID:          m.ID().String(),
		PropertyID:  m.PropertyID().String(),
		FileName:    m.FileName(),
		ContentType: m.ContentType(),
		SizeBytes:   m.SizeBytes(),
		Kind:        m.MediaKind().String(),
		Caption:     m.Caption(),
		UploadedBy:  m.UploadedBy().String(),
		CreatedAt:   m.CreatedAt(),
		URL:         url,
	}
}

// Upload handles POST /api/v1/properties/{id}/media
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.UploadMediaInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	ticket, err := h.service.Upload(r.Context(), chi.URLParam(r, "id"), input, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Media", err)
		return
	}

	respondJSON(w, http.StatusCreated, MediaTicketResponse{
		Media:     toMediaResponse(ticket.Media, ""),
		UploadURL: ticket.UploadURL,
	})
}

// List handles GET /api/v1/properties/{id}/media. Public properties serve
// their gallery to anonymous callers as well, so this route sits behind
// optional authentication.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")
	userID := requestUserID(r)

	p, err := h.properties.Get(r.Context(), propertyID, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	views, err := h.service.List(r.Context(), propertyID, userID, p.PublicVisibility())
	if err != nil {
		handleServiceError(w, h.logger, "Media", err)
		return
	}

	data := make([]MediaResponse, len(views))
	for i, v := range views {
		data[i] = toMediaResponse(v.Media, v.URL)
	}

	respondJSON(w, http.StatusOK, ListResponse[MediaResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}

// CaptionRequest represents the request to update a media caption.
type CaptionRequest struct {
	Caption string `json:"caption" validate:"max=500"`
}

// UpdateCaption handles PUT /api/v1/media/{id}/caption
func (h *MediaHandler) UpdateCaption(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var req CaptionRequest
	if err := decodeJSON(r, &req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		handleValidationError(w, err)
		return
	}

	m, err := h.service.UpdateCaption(r.Context(), chi.URLParam(r, "id"), req.Caption, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Media", err)
		return
	}

	respondJSON(w, http.StatusOK, toMediaResponse(m, ""))
}

// Delete handles DELETE /api/v1/media/{id}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.logger, "Media", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
