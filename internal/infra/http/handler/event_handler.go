package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/pagination"
)

// EventHandler handles property timeline HTTP requests.
type EventHandler struct {
	service *app.EventService
	access  *app.AccessService
	logger  *logger.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(svc *app.EventService, access *app.AccessService, log *logger.Logger) *EventHandler {
	return &EventHandler{
		service: svc,
		access:  access,
		logger:  log,
	}
}

// EventResponse represents a timeline event in API responses.
type EventResponse struct {
	ID         string         `json:"id"`
	PropertyID string         `json:"property_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func toEventResponse(e *event.Event) EventResponse {
	resp := EventResponse{
		ID:         e.ID().String(),
		PropertyID: e.PropertyID().String(),
		Action:     e.Action().String(),
		EntityType: e.EntityType(),
		Metadata:   e.Metadata(),
		CreatedAt:  e.CreatedAt(),
	}
	if actor := e.ActorID(); actor != nil {
		resp.ActorID = actor.String()
	}
	if entityID := e.EntityID(); entityID != nil {
		resp.EntityID = entityID.String()
	}
	return resp
}

// ListByProperty handles GET /api/v1/properties/{id}/events
func (h *EventHandler) ListByProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	propertyID, err := shared.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		apierror.BadRequest("Invalid property ID").WriteJSON(w)
		return
	}

	if err := h.access.RequireView(r.Context(), propertyID, userID); err != nil {
		handleServiceError(w, h.logger, "Property", err)
		return
	}

	query := r.URL.Query()
	page := pagination.New(parseQueryInt(query.Get("page"), 1), parseQueryInt(query.Get("per_page"), 50))

	events, total, err := h.service.ListByProperty(r.Context(), propertyID.String(), page.Offset(), page.Limit())
	if err != nil {
		handleServiceError(w, h.logger, "Event", err)
		return
	}

	data := make([]EventResponse, len(events))
	for i, e := range events {
		data[i] = toEventResponse(e)
	}

	totalPages := int((total + int64(page.PerPage) - 1) / int64(page.PerPage))
	respondJSON(w, http.StatusOK, ListResponse[EventResponse]{
		Data:       data,
		Total:      total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: totalPages,
		Links:      NewPaginationLinks(r, page.Page, page.PerPage, totalPages),
	})
}
