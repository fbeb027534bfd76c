// Package routes registers all HTTP routes for the API.
// Routes are organized by domain for maintainability.
package routes

import (
	infrahttp "github.com/propertypassport/api/internal/infra/http"
	"github.com/propertypassport/api/internal/infra/http/handler"
	"github.com/propertypassport/api/internal/infra/http/middleware"
	"github.com/propertypassport/api/pkg/jwt"
	"github.com/propertypassport/api/pkg/logger"
)

// Middleware is an alias to the http package's Middleware type.
type Middleware = infrahttp.Middleware

// Router is an alias to the http package's Router interface.
type Router = infrahttp.Router

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Property    *handler.PropertyHandler
	Stakeholder *handler.StakeholderHandler
	Document    *handler.DocumentHandler
	Media       *handler.MediaHandler
	Task        *handler.TaskHandler
	Issue       *handler.IssueHandler
	Invitation  *handler.InvitationHandler
	Watchlist   *handler.WatchlistHandler
	Event       *handler.EventHandler
	Admin       *handler.AdminHandler

	// TestSupport is nil in production; its routes are only mounted when
	// the wiring constructs it.
	TestSupport *handler.TestSupportHandler
}

// Register registers all application routes. This keeps route definitions in
// the infrastructure layer, not in main.
func Register(router Router, h Handlers, tokens *jwt.Generator, log *logger.Logger) {
	auth := middleware.Authenticate(tokens, log)
	optionalAuth := middleware.OptionalAuthenticate(tokens)

	registerHealthRoutes(router, h.Health)
	registerAuthRoutes(router, h.Auth, auth, log)
	registerAccountRoutes(router, h, auth)
	registerPropertyRoutes(router, h, auth, optionalAuth)
	registerAdminRoutes(router, h.Admin, auth)

	if h.TestSupport != nil {
		registerTestSupportRoutes(router, h.TestSupport)
	}
}

func registerTestSupportRoutes(router Router, h *handler.TestSupportHandler) {
	router.Group("/api/v1/test", func(r Router) {
		r.POST("/reset", h.Reset)
		r.POST("/seed", h.Seed)
		r.GET("/env", h.Env)
	})
}
