package routes

// registerAccountRoutes registers the authenticated user's own surface:
// profile, received invitations and the watchlist.
func registerAccountRoutes(router Router, h Handlers, auth Middleware) {
	router.Group("/api/v1/me", func(r Router) {
		r.GET("/", h.User.Me)
		r.PUT("/", h.User.UpdateProfile)
		r.PUT("/password", h.User.ChangePassword)
	}, auth)

	router.Group("/api/v1/invitations", func(r Router) {
		r.GET("/", h.Invitation.ListMine)
		r.GET("/{token}", h.Invitation.GetByToken)
		r.POST("/{token}/accept", h.Invitation.Accept)
		r.POST("/{token}/decline", h.Invitation.Decline)
	}, auth)

	router.Group("/api/v1/watchlist", func(r Router) {
		r.GET("/", h.Watchlist.List)
		r.GET("/{propertyID}", h.Watchlist.Status)
		r.PUT("/{propertyID}", h.Watchlist.Add)
		r.DELETE("/{propertyID}", h.Watchlist.Remove)
	}, auth)
}
