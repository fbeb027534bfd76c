package main

import (
	"github.com/propertypassport/api/internal/infra/http/handler"
	"github.com/propertypassport/api/internal/infra/http/routes"
	"github.com/propertypassport/api/internal/infra/postgres"
	"github.com/propertypassport/api/internal/infra/redis"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

// HandlerDeps contains dependencies needed to create handlers.
type HandlerDeps struct {
	Log         *logger.Logger
	Validator   *validator.Validator
	DB          *postgres.DB
	RedisClient *redis.Client
	Services    *Services
}

// NewHandlers creates all HTTP handlers.
func NewHandlers(deps *HandlerDeps) routes.Handlers {
	log := deps.Log
	v := deps.Validator
	svc := deps.Services

	return routes.Handlers{
		// Health
		Health: handler.NewHealthHandler(
			handler.WithDatabase(deps.DB),
			handler.WithRedis(deps.RedisClient),
		),

		// Auth & Account
		Auth: handler.NewAuthHandler(svc.Auth, v, log),
		User: handler.NewUserHandler(svc.User, svc.Session, v, log),

		// Properties
		Property:    handler.NewPropertyHandler(svc.Property, svc.Search, svc.Session, v, log),
		Stakeholder: handler.NewStakeholderHandler(svc.Stakeholder, v, log),

		// Attachments
		Document: handler.NewDocumentHandler(svc.Document, v, log),
		Media:    handler.NewMediaHandler(svc.Media, svc.Property, v, log),

		// Workflow
		Task:       handler.NewTaskHandler(svc.Task, v, log),
		Issue:      handler.NewIssueHandler(svc.Flag, v, log),
		Invitation: handler.NewInvitationHandler(svc.Invitation, v, log),

		// Watchlist & Timeline
		Watchlist: handler.NewWatchlistHandler(svc.Watchlist, log),
		Event:     handler.NewEventHandler(svc.Event, svc.Access, log),

		// Admin
		Admin: handler.NewAdminHandler(svc.User, svc.Dashboard, svc.Event, log),

		TestSupport: newTestSupportHandler(svc, log),
	}
}

// newTestSupportHandler returns nil in production; nil means the routes are
// never mounted.
func newTestSupportHandler(svc *Services, log *logger.Logger) *handler.TestSupportHandler {
	if svc.TestSupport == nil {
		return nil
	}
	return handler.NewTestSupportHandler(svc.TestSupport, log)
}
