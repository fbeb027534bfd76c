package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/pagination"
)

// AdminHandler handles the admin panel endpoints. Every route is behind
// RequireAdmin; the handlers themselves do no access checks.
type AdminHandler struct {
	users     *app.UserService
	dashboard *app.DashboardService
	events    *app.EventService
	logger    *logger.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users *app.UserService, dashboard *app.DashboardService, events *app.EventService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		users:     users,
		dashboard: dashboard,
		events:    events,
		logger:    log,
	}
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, "Stats", err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := pagination.New(parseQueryInt(query.Get("page"), 1), parseQueryInt(query.Get("per_page"), 20))

	users, total, err := h.users.List(r.Context(), page.Offset(), page.Limit())
	if err != nil {
		handleServiceError(w, h.logger, "User", err)
		return
	}

	data := make([]UserResponse, len(users))
	for i, u := range users {
		data[i] = toUserResponse(u)
	}

	totalPages := int((total + int64(page.PerPage) - 1) / int64(page.PerPage))
	respondJSON(w, http.StatusOK, ListResponse[UserResponse]{
		Data:       data,
		Total:      total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: totalPages,
		Links:      NewPaginationLinks(r, page.Page, page.PerPage, totalPages),
	})
}

// GrantAdmin handles POST /api/v1/admin/users/{id}/grant-admin
func (h *AdminHandler) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GrantAdmin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, "User", err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, "User", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecentEvents handles GET /api/v1/admin/events
func (h *AdminHandler) RecentEvents(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r.URL.Query().Get("limit"), 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	events, err := h.events.ListRecent(r.Context(), limit)
	if err != nil {
		handleServiceError(w, h.logger, "Event", err)
		return
	}

	data := make([]EventResponse, len(events))
	for i, e := range events {
		data[i] = toEventResponse(e)
	}

	respondJSON(w, http.StatusOK, ListResponse[EventResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}
