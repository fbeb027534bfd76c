package main

import (
	"github.com/propertypassport/api/internal/infra/postgres"
)

// Repositories holds all repository instances.
type Repositories struct {
	// Core
	User     *postgres.UserRepository
	Property *postgres.PropertyRepository

	// Access
	Stakeholder *postgres.StakeholderRepository
	Invitation  *postgres.InvitationRepository

	// Attachments
	Document *postgres.DocumentRepository
	Media    *postgres.MediaRepository

	// Workflow
	Task *postgres.TaskRepository
	Flag *postgres.FlagRepository

	// Timeline & Watchlist
	Event     *postgres.EventRepository
	Watchlist *postgres.WatchlistRepository

	// TestSupport is only exercised outside production.
	TestSupport *postgres.TestSupportRepository
}

// NewRepositories initializes all repositories.
func NewRepositories(db *postgres.DB) *Repositories {
	return &Repositories{
		// Core
		User:     postgres.NewUserRepository(db),
		Property: postgres.NewPropertyRepository(db),

		// Access
		Stakeholder: postgres.NewStakeholderRepository(db),
		Invitation:  postgres.NewInvitationRepository(db),

		// Attachments
		Document: postgres.NewDocumentRepository(db),
		Media:    postgres.NewMediaRepository(db),

		// Workflow
		Task: postgres.NewTaskRepository(db),
		Flag: postgres.NewFlagRepository(db),

		// Timeline & Watchlist
		Event:     postgres.NewEventRepository(db),
		Watchlist: postgres.NewWatchlistRepository(db),

		TestSupport: postgres.NewTestSupportRepository(db),
	}
}
