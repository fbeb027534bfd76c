package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/document"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

// DocumentHandler handles property document HTTP requests.
type DocumentHandler struct {
	service   *app.DocumentService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(svc *app.DocumentService, v *validator.Validator, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:   svc,
		validator: v,
		logger:    log,
	}
}

// DocumentResponse represents a document in API responses. DownloadURL is a
// pre-signed GET URL and expires; clients must not persist it.
type DocumentResponse struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Kind        string    `json:"kind"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
	DownloadURL string    `json:"download_url,omitempty"`
}

// UploadTicketResponse represents a started upload: the document record plus
// a pre-signed PUT URL to send the bytes to.
type UploadTicketResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"upload_url"`
}

func toDocumentResponse(d *document.Document, downloadURL string) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID().String(),
		PropertyID:  d.PropertyID().String(),
		FileName:    d.FileName(),
		ContentType: d.ContentType(),
		SizeBytes:   d.SizeBytes(),
		Kind:        d.DocumentKind().String(),
		UploadedBy:  d.UploadedBy().String(),
		CreatedAt:   d.CreatedAt(),
		DownloadURL: downloadURL,
	}
}

// Upload handles POST /api/v1/properties/{id}/documents
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.UploadDocumentInput
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
		handleServiceError(w, h.logger, "Document", err)
		return
	}

	respondJSON(w, http.StatusCreated, UploadTicketResponse{
		Document:  toDocumentResponse(ticket.Document, ""),
		UploadURL: ticket.UploadURL,
	})
}

// List handles GET /api/v1/properties/{id}/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	views, err := h.service.List(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Document", err)
		return
	}

	data := make([]DocumentResponse, len(views))
	for i, v := range views {
		data[i] = toDocumentResponse(v.Document, v.DownloadURL)
	}

	respondJSON(w, http.StatusOK, ListResponse[DocumentResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}

// Get handles GET /api/v1/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Document", err)
		return
	}

	respondJSON(w, http.StatusOK, toDocumentResponse(view.Document, view.DownloadURL))
}

// Delete handles DELETE /api/v1/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.logger, "Document", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
