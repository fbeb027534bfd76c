package handler

import (
	"net/http"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

// UserHandler handles the authenticated user's own account.
type UserHandler struct {
	users     *app.UserService
	sessions  *app.SessionService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *app.UserService, sessions *app.SessionService, v *validator.Validator, log *logger.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		sessions:  sessions,
		validator: v,
		logger:    log,
	}
}

// DashboardResponse represents the derived dashboard shape for a session.
type DashboardResponse struct {
	Role             string   `json:"role"`
	Tabs             []string `json:"tabs"`
	CanViewDocuments bool     `json:"can_view_documents"`
	CanViewMedia     bool     `json:"can_view_media"`
	CanViewIssues    bool     `json:"can_view_issues"`
	CanSeeAdminPanel bool     `json:"can_see_admin_panel"`
}

// MeResponse represents the current user plus their dashboard view.
type MeResponse struct {
	User      UserResponse      `json:"user"`
	Dashboard DashboardResponse `json:"dashboard"`
}

func toDashboardResponse(view app.DashboardView) DashboardResponse {
	tabs := make([]string, len(view.Tabs))
	for i, t := range view.Tabs {
		tabs[i] = string(t)
	}
	return DashboardResponse{
		Role:             view.Role.String(),
		Tabs:             tabs,
		CanViewDocuments: view.CanViewDocuments,
		CanViewMedia:     view.CanViewMedia,
		CanViewIssues:    view.CanViewIssues,
		CanSeeAdminPanel: view.CanSeeAdminPanel,
	}
}

// Me handles GET /api/v1/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, "User", err)
		return
	}

	sess, err := h.sessions.Load(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Session", err)
		return
	}

	respondJSON(w, http.StatusOK, MeResponse{
		User:      toUserResponse(u),
		Dashboard: toDashboardResponse(h.sessions.DashboardFor(sess)),
	})
}

// UpdateProfile handles PUT /api/v1/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.UpdateProfileInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, h.logger, "User", err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// ChangePassword handles PUT /api/v1/me/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.ChangePasswordInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID, input); err != nil {
		handleServiceError(w, h.logger, "User", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
