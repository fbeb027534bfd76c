package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/watchlist"
)

// WatchlistRepository implements watchlist.Repository using PostgreSQL.
type WatchlistRepository struct {
	db *DB
}

// NewWatchlistRepository creates a new WatchlistRepository.
func NewWatchlistRepository(db *DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Create persists a new watchlist entry.
func (r *WatchlistRepository) Create(ctx context.Context, e *watchlist.Entry) error {
	query := `
		INSERT INTO watchlist_entries (id, user_id, property_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID().String(),
		e.UserID().String(),
		e.PropertyID().String(),
		e.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create watchlist entry: %w", err)
	}

	return nil
}

// Delete removes a watchlist entry.
func (r *WatchlistRepository) Delete(ctx context.Context, userID, propertyID shared.ID) error {
	query := `DELETE FROM watchlist_entries WHERE user_id = $1 AND property_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID.String(), propertyID.String())
	if err != nil {
		return fmt.Errorf("failed to delete watchlist entry: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ListByUser returns a user's watchlist entries, newest first.
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID shared.ID) ([]*watchlist.Entry, error) {
	query := `SELECT id, user_id, property_id, created_at FROM watchlist_entries WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist entries: %w", err)
	}
	defer rows.Close()

	var entries []*watchlist.Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlist entries: %w", err)
	}

	return entries, nil
}

// Exists reports whether a user already watches a property.
func (r *WatchlistRepository) Exists(ctx context.Context, userID, propertyID shared.ID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM watchlist_entries WHERE user_id = $1 AND property_id = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID.String(), propertyID.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check watchlist entry: %w", err)
	}

	return exists, nil
}

func (r *WatchlistRepository) scanEntry(row rowScanner) (*watchlist.Entry, error) {
	var (
		idStr         string
		userIDStr     string
		propertyIDStr string
		createdAt     sql.NullTime
	)

	err := row.Scan(&idStr, &userIDStr, &propertyIDStr, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid entry ID: %w", err)
	}
	userID, err := shared.IDFromString(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	propertyID, err := shared.IDFromString(propertyIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}

	return watchlist.Reconstitute(id, userID, propertyID, createdAt.Time), nil
}
