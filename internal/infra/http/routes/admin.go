package routes

import (
	"github.com/propertypassport/api/internal/infra/http/handler"
	"github.com/propertypassport/api/internal/infra/http/middleware"
)

// registerAdminRoutes registers the admin panel. Everything here is behind
// both authentication and the admin flag.
func registerAdminRoutes(router Router, h *handler.AdminHandler, auth Middleware) {
	router.Group("/api/v1/admin", func(r Router) {
		r.GET("/stats", h.Stats)
		r.GET("/events", h.RecentEvents)
		r.GET("/users", h.ListUsers)
		r.POST("/users/{id}/grant-admin", h.GrantAdmin)
		r.DELETE("/users/{id}", h.DeleteUser)
	}, auth, middleware.RequireAdmin())
}
