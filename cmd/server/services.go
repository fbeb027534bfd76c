package main

import (
	"fmt"
	"time"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/internal/config"
	"github.com/propertypassport/api/internal/infra/jobs"
	"github.com/propertypassport/api/internal/infra/redis"
	"github.com/propertypassport/api/internal/infra/storage"
	"github.com/propertypassport/api/pkg/email"
	"github.com/propertypassport/api/pkg/jwt"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/password"
)

// statsCacheTTL bounds how stale the admin dashboard counters may get.
const statsCacheTTL = 5 * time.Minute

// Services holds all service instances.
type Services struct {
	// Auth
	Auth    *app.AuthService
	Session *app.SessionService

	// Core
	User   *app.UserService
	Access *app.AccessService
	Event  *app.EventService

	// Properties
	Property    *app.PropertyService
	Stakeholder *app.StakeholderService
	Search      *app.SearchService

	// Attachments
	Document *app.DocumentService
	Media    *app.MediaService

	// Workflow
	Task       *app.TaskService
	Flag       *app.FlagService
	Invitation *app.InvitationService

	// Watchlist & Dashboard
	Watchlist *app.WatchlistService
	Dashboard *app.DashboardService

	// Email
	Email *app.EmailService

	// TestSupport is nil in production.
	TestSupport *app.TestSupportService
}

// ServiceDeps contains dependencies needed to create services.
type ServiceDeps struct {
	Config      *config.Config
	Log         *logger.Logger
	Repos       *Repositories
	RedisClient *redis.Client
	Storage     *storage.Client
	Tokens      *jwt.Generator
	JobClient   *jobs.Client
}

// NewServices initializes all services.
func NewServices(deps *ServiceDeps) (*Services, error) {
	cfg := deps.Config
	log := deps.Log
	repos := deps.Repos

	hasher := password.New(
		password.WithCost(cfg.Auth.BcryptCost),
		password.WithPolicy(password.Policy{
			MinLength:     cfg.Auth.PasswordMinLength,
			RequireUpper:  cfg.Auth.PasswordRequireUpper,
			RequireLower:  cfg.Auth.PasswordRequireLower,
			RequireNumber: cfg.Auth.PasswordRequireNumber,
		}),
	)

	accessSvc := app.NewAccessService(repos.Stakeholder, repos.User, log)
	events := app.NewEventService(repos.Event, log)

	denylist, err := redis.NewTokenDenylist(deps.RedisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create token denylist: %w", err)
	}

	authOpts := []app.AuthServiceOption{app.WithTokenRevoker(denylist)}
	if deps.JobClient != nil {
		authOpts = append(authOpts, app.WithWelcomeEmailEnqueuer(jobs.NewWelcomeEnqueuerAdapter(deps.JobClient)))
	}

	var invOpts []app.InvitationServiceOption
	if deps.JobClient != nil {
		invOpts = append(invOpts, app.WithEmailEnqueuer(deps.JobClient))
	}

	statsCache, err := redis.NewCache[app.AdminStats](deps.RedisClient, "stats", statsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats cache: %w", err)
	}

	var sender email.Sender
	if cfg.SMTP.IsConfigured() {
		sender = email.NewSMTPSender(email.Config{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			User:       cfg.SMTP.User,
			Password:   cfg.SMTP.Password,
			From:       cfg.SMTP.From,
			FromName:   cfg.SMTP.FromName,
			TLS:        cfg.SMTP.TLS,
			SkipVerify: cfg.SMTP.SkipVerify,
			Timeout:    cfg.SMTP.Timeout,
		})
		log.Info("smtp sender configured", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
	} else {
		sender = email.NewNoOpSender()
		log.Warn("smtp not configured, emails will be discarded")
	}

	dashboard := app.NewDashboardService(repos.User, repos.Property, repos.Document, repos.Media, repos.Flag, statsCache, log)

	var testSupport *app.TestSupportService
	if !cfg.IsProduction() {
		testSupport = app.NewTestSupportService(
			repos.TestSupport,
			repos.User,
			repos.Property,
			repos.Stakeholder,
			hasher,
			dashboard,
			cfg.App.Name,
			cfg.App.Env,
			log,
		)
		log.Warn("test support endpoints enabled", "env", cfg.App.Env)
	}

	return &Services{
		Auth:    app.NewAuthService(repos.User, hasher, deps.Tokens, cfg.Auth.AllowRegistration, log, authOpts...),
		Session: app.NewSessionService(repos.User, repos.Stakeholder, repos.Property, log),

		User:   app.NewUserService(repos.User, hasher, log),
		Access: accessSvc,
		Event:  events,

		Property:    app.NewPropertyService(repos.Property, repos.Stakeholder, accessSvc, events, log),
		Stakeholder: app.NewStakeholderService(repos.Stakeholder, repos.Property, accessSvc, events, log),
		Search:      app.NewSearchService(repos.Property, log),

		Document: app.NewDocumentService(repos.Document, deps.Storage, accessSvc, events, log),
		Media:    app.NewMediaService(repos.Media, deps.Storage, accessSvc, events, log),

		Task: app.NewTaskService(repos.Task, accessSvc, events, log),
		Flag: app.NewFlagService(repos.Flag, accessSvc, events, log),
		Invitation: app.NewInvitationService(
			repos.Invitation,
			repos.Stakeholder,
			repos.Property,
			repos.User,
			accessSvc,
			events,
			log,
			invOpts...,
		),

		Watchlist: app.NewWatchlistService(repos.Watchlist, repos.Property, accessSvc, log),
		Dashboard: dashboard,

		Email: app.NewEmailService(sender, cfg.App.BaseURL, cfg.App.Name, log),

		TestSupport: testSupport,
	}, nil
}
