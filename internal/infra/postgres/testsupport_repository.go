package postgres

import (
	"context"
	"fmt"
)

// TestSupportRepository clears application data for test environments.
// It must never be constructed in production wiring.
type TestSupportRepository struct {
	db *DB
}

// NewTestSupportRepository creates a new TestSupportRepository.
func NewTestSupportRepository(db *DB) *TestSupportRepository {
	return &TestSupportRepository{db: db}
}

// tables lists every application table in dependency order. CASCADE handles
// the foreign keys; the explicit list keeps the reset honest about scope.
var tables = []string{
	"watchlist_entries",
	"property_events",
	"invitations",
	"flags",
	"tasks",
	"media",
	"documents",
	"property_stakeholders",
	"properties",
	"users",
}

// Reset truncates all application tables.
func (r *TestSupportRepository) Reset(ctx context.Context) error {
	for _, table := range tables {
		if _, err := r.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}
