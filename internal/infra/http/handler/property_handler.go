package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/pagination"
	"github.com/propertypassport/api/pkg/validator"
)

// PropertyHandler handles property HTTP requests.
type PropertyHandler struct {
	service   *app.PropertyService
	search    *app.SearchService
	sessions  *app.SessionService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(svc *app.PropertyService, search *app.SearchService, sessions *app.SessionService, v *validator.Validator, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service:   svc,
		search:    search,
		sessions:  sessions,
		validator: v,
		logger:    log,
	}
}

// PropertyResponse represents a property in API responses.
type PropertyResponse struct {
	ID               string    `json:"id"`
	Slug             string    `json:"slug"`
	AddressLine1     string    `json:"address_line1"`
	AddressLine2     string    `json:"address_line2,omitempty"`
	City             string    `json:"city"`
	Postcode         string    `json:"postcode"`
	PropertyType     string    `json:"property_type"`
	Bedrooms         int       `json:"bedrooms"`
	Bathrooms        int       `json:"bathrooms"`
	Price            int64     `json:"price"`
	EPCRating        string    `json:"epc_rating,omitempty"`
	PublicVisibility bool      `json:"public_visibility"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:               p.ID().String(),
		Slug:             p.Slug(),
		AddressLine1:     p.AddressLine1(),
		AddressLine2:     p.AddressLine2(),
		City:             p.City(),
		Postcode:         p.Postcode(),
		PropertyType:     p.PropertyType().String(),
		Bedrooms:         p.Bedrooms(),
		Bathrooms:        p.Bathrooms(),
		Price:            p.Price(),
		EPCRating:        p.EPCRating(),
		PublicVisibility: p.PublicVisibility(),
		CreatedBy:        p.CreatedBy().String(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

// Create handles POST /api/v1/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.CreatePropertyInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), input, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	respondJSON(w, http.StatusCreated, toPropertyResponse(p))
}

// Get handles GET /api/v1/properties/{id}
// GetAccess handles GET /api/v1/properties/{id}/access
func (h *PropertyHandler) GetAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	access, err := h.service.CheckAccess(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	respondJSON(w, http.StatusOK, access)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), requestUserID(r))
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	respondJSON(w, http.StatusOK, toPropertyResponse(p))
}

// GetBySlug handles GET /api/v1/properties/by-slug/{slug}
func (h *PropertyHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"), requestUserID(r))
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	respondJSON(w, http.StatusOK, toPropertyResponse(p))
}

// Update handles PUT /api/v1/properties/{id}
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.UpdatePropertyInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	respondJSON(w, http.StatusOK, toPropertyResponse(p))
}

// VisibilityRequest represents the request to change public visibility.
type VisibilityRequest struct {
	Public bool `json:"public"`
}

// SetVisibility handles PUT /api/v1/properties/{id}/visibility
func (h *PropertyHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var req VisibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	p, err := h.service.SetVisibility(r.Context(), chi.URLParam(r, "id"), req.Public, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	respondJSON(w, http.StatusOK, toPropertyResponse(p))
}

// RegenerateSlug handles POST /api/v1/properties/{id}/regenerate-slug
func (h *PropertyHandler) RegenerateSlug(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	p, err := h.service.RegenerateSlug(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	respondJSON(w, http.StatusOK, toPropertyResponse(p))
}

// Delete handles DELETE /api/v1/properties/{id}
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /api/v1/properties
func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page := pagination.New(parseQueryInt(query.Get("page"), 1), parseQueryInt(query.Get("per_page"), 20))

	properties, total, err := h.service.ListMine(r.Context(), userID, page.Offset(), page.Limit())
	if err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	data := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		data[i] = toPropertyResponse(p)
	}

	totalPages := int((total + int64(page.PerPage) - 1) / int64(page.PerPage))
	respondJSON(w, http.StatusOK, ListResponse[PropertyResponse]{
		Data:       data,
		Total:      total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: totalPages,
		Links:      NewPaginationLinks(r, page.Page, page.PerPage, totalPages),
	})
}

// SearchResultResponse represents one search hit with attachment counts.
type SearchResultResponse struct {
	Property   PropertyResponse `json:"property"`
	Documents  int              `json:"document_count"`
	Media      int              `json:"media_count"`
	OpenIssues int              `json:"open_issue_count"`
}

// Search handles GET /api/v1/search
func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	sess, err := h.sessions.Load(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Session", err)
		return
	}

	query := r.URL.Query()
	page := pagination.New(parseQueryInt(query.Get("page"), 1), parseQueryInt(query.Get("per_page"), 20))

	input := app.SearchInput{
		Filters: property.FilterSet{
			Query:        query.Get("q"),
			MinBedrooms:  parseQueryIntPtr(query.Get("min_bedrooms")),
			MinBathrooms: parseQueryIntPtr(query.Get("min_bathrooms")),
			MinPrice:     parseQueryInt64Ptr(query.Get("min_price")),
			MaxPrice:     parseQueryInt64Ptr(query.Get("max_price")),
			MinEPCRating: parseQueryStringPtr(query.Get("min_epc_rating")),
			MaxEPCRating: parseQueryStringPtr(query.Get("max_epc_rating")),
			HasDocuments: parseQueryBool(query.Get("has_documents")),
			HasMedia:     parseQueryBool(query.Get("has_media")),
			HasIssues:    parseQueryBool(query.Get("has_issues")),
		},
		Role:   h.sessions.DashboardFor(sess).Role,
		UserID: userID,
		Offset: page.Offset(),
		Limit:  page.Limit(),
	}

	rows := h.search.Search(r.Context(), input)

	data := make([]SearchResultResponse, len(rows))
	for i, row := range rows {
		data[i] = SearchResultResponse{
			Property:   toPropertyResponse(row.Property),
			Documents:  row.Counts.Documents,
			Media:      row.Counts.Media,
			OpenIssues: row.Counts.OpenIssues,
		}
	}

	respondJSON(w, http.StatusOK, ListResponse[SearchResultResponse]{
		Data:    data,
		Total:   int64(len(data)),
		Page:    page.Page,
		PerPage: page.PerPage,
	})
}
