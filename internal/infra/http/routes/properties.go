package routes

// registerPropertyRoutes registers the property surface and its nested
// resources. Reads that public properties serve to anonymous visitors sit
// behind optional authentication; everything else requires a session.
func registerPropertyRoutes(router Router, h Handlers, auth, optionalAuth Middleware) {
	router.Group("/api/v1/properties", func(r Router) {
		r.POST("/", h.Property.Create, auth)
		r.GET("/", h.Property.ListMine, auth)
		r.GET("/{id}", h.Property.Get, optionalAuth)
		r.GET("/by-slug/{slug}", h.Property.GetBySlug, optionalAuth)
		r.PUT("/{id}", h.Property.Update, auth)
		r.PUT("/{id}/visibility", h.Property.SetVisibility, auth)
		r.POST("/{id}/regenerate-slug", h.Property.RegenerateSlug, auth)
		r.DELETE("/{id}", h.Property.Delete, auth)
		r.GET("/{id}/access", h.Property.GetAccess, auth)

		r.GET("/{id}/stakeholders", h.Stakeholder.List, auth)
		r.POST("/{id}/stakeholders", h.Stakeholder.Grant, auth)
		r.DELETE("/{id}/stakeholders/{userID}/{status}", h.Stakeholder.Revoke, auth)
		r.DELETE("/{id}/stakeholders/{userID}", h.Stakeholder.RemoveAll, auth)

		r.GET("/{id}/documents", h.Document.List, auth)
		r.POST("/{id}/documents", h.Document.Upload, auth)

		r.GET("/{id}/media", h.Media.List, optionalAuth)
		r.POST("/{id}/media", h.Media.Upload, auth)

		r.GET("/{id}/tasks", h.Task.List, auth)
		r.POST("/{id}/tasks", h.Task.Create, auth)

		r.GET("/{id}/issues", h.Issue.List, auth)
		r.POST("/{id}/issues", h.Issue.Raise, auth)

		r.GET("/{id}/invitations", h.Invitation.ListByProperty, auth)
		r.POST("/{id}/invitations", h.Invitation.Create, auth)
		r.DELETE("/{id}/invitations/{invitationID}", h.Invitation.Revoke, auth)

		r.GET("/{id}/events", h.Event.ListByProperty, auth)
	})

	router.Group("/api/v1/documents", func(r Router) {
		r.GET("/{id}", h.Document.Get)
		r.DELETE("/{id}", h.Document.Delete)
	}, auth)

	router.Group("/api/v1/media", func(r Router) {
		r.PUT("/{id}/caption", h.Media.UpdateCaption)
		r.DELETE("/{id}", h.Media.Delete)
	}, auth)

	router.Group("/api/v1/tasks", func(r Router) {
		r.PUT("/{id}", h.Task.Update)
		r.DELETE("/{id}", h.Task.Delete)
	}, auth)

	router.Group("/api/v1/issues", func(r Router) {
		r.POST("/{id}/resolve", h.Issue.Resolve)
		r.DELETE("/{id}", h.Issue.Delete)
	}, auth)

	router.GET("/api/v1/search", h.Property.Search, auth)
}
