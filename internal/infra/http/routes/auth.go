package routes

import (
	"github.com/propertypassport/api/internal/infra/http/handler"
	"github.com/propertypassport/api/internal/infra/http/middleware"
	"github.com/propertypassport/api/pkg/logger"
)

// registerAuthRoutes registers authentication endpoints. Login and register
// get strict per-IP rate limits against brute force and credential stuffing.
func registerAuthRoutes(router Router, h *handler.AuthHandler, auth Middleware, log *logger.Logger) {
	authRL := middleware.NewAuthRateLimiter(log)

	router.Group("/api/v1/auth", func(r Router) {
		r.POST("/register", h.Register, authRL.RegisterMiddleware())
		r.POST("/login", h.Login, authRL.LoginMiddleware())
		r.POST("/refresh", h.Refresh, authRL.LoginMiddleware())
		r.POST("/logout", h.Logout, auth)
	})
}
