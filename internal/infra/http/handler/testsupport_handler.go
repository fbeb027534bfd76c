package handler

import (
	"net/http"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/logger"
)

// TestSupportHandler exposes the endpoints end-to-end suites use to reset
// and seed data. It is only registered outside production.
type TestSupportHandler struct {
	service *app.TestSupportService
	logger  *logger.Logger
}

// NewTestSupportHandler creates a new test support handler.
func NewTestSupportHandler(svc *app.TestSupportService, log *logger.Logger) *TestSupportHandler {
	return &TestSupportHandler{service: svc, logger: log}
}

// Reset handles POST /api/v1/test/reset
func (h *TestSupportHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		handleServiceError(w, h.logger, "Reset", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "all data reset"})
}

// Seed handles POST /api/v1/test/seed
func (h *TestSupportHandler) Seed(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Seed(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, "Seed", err)
		return
	}
	respondJSON(w, http.StatusCreated, summary)
}

// Env handles GET /api/v1/test/env
func (h *TestSupportHandler) Env(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Env())
}
