package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/logger"
)

// WatchlistHandler handles watchlist HTTP requests.
type WatchlistHandler struct {
	service *app.WatchlistService
	logger  *logger.Logger
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(svc *app.WatchlistService, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: svc,
		logger:  log,
	}
}

// WatchlistEntryResponse represents a watchlist entry with its property.
type WatchlistEntryResponse struct {
	ID        string           `json:"id"`
	Property  PropertyResponse `json:"property"`
	CreatedAt time.Time        `json:"created_at"`
}

// Add handles PUT /api/v1/watchlist/{propertyID}
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Add(r.Context(), chi.URLParam(r, "propertyID"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Watchlist entry", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":          entry.ID().String(),
		"property_id": entry.PropertyID().String(),
		"created_at":  entry.CreatedAt(),
	})
}

// Remove handles DELETE /api/v1/watchlist/{propertyID}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), chi.URLParam(r, "propertyID"), userID); err != nil {
		handleServiceError(w, h.logger, "Watchlist entry", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Watchlist entry", err)
		return
	}

	data := make([]WatchlistEntryResponse, len(items))
	for i, item := range items {
		data[i] = WatchlistEntryResponse{
			ID:        item.Entry.ID().String(),
			Property:  toPropertyResponse(item.Property),
			CreatedAt: item.Entry.CreatedAt(),
		}
	}

	respondJSON(w, http.StatusOK, ListResponse[WatchlistEntryResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}

// Status handles GET /api/v1/watchlist/{propertyID}
func (h *WatchlistHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	watching, err := h.service.IsWatching(r.Context(), chi.URLParam(r, "propertyID"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Watchlist entry", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"watching": watching})
}
