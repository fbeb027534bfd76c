package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/flag"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// FlagRepository implements flag.Repository using PostgreSQL.
type FlagRepository struct {
	db *DB
}

// NewFlagRepository creates a new FlagRepository.
func NewFlagRepository(db *DB) *FlagRepository {
	return &FlagRepository{db: db}
}

const flagColumns = `id, property_id, title, description, severity, resolved_at, raised_by, created_at, updated_at`

// Create persists a new flag.
func (r *FlagRepository) Create(ctx context.Context, f *flag.Flag) error {
	query := `
		INSERT INTO flags (id, property_id, title, description, severity, resolved_at, raised_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		f.ID().String(),
		f.PropertyID().String(),
		f.Title(),
		nullString(f.Description()),
		f.Severity().String(),
		nullTime(f.ResolvedAt()),
		f.RaisedBy().String(),
		f.CreatedAt(),
		f.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create flag: %w", err)
	}

	return nil
}

// GetByID retrieves a flag by ID.
func (r *FlagRepository) GetByID(ctx context.Context, id shared.ID) (*flag.Flag, error) {
	query := `SELECT ` + flagColumns + ` FROM flags WHERE id = $1`
	return r.scanFlag(r.db.QueryRowContext(ctx, query, id.String()))
}

// Update updates an existing flag.
func (r *FlagRepository) Update(ctx context.Context, f *flag.Flag) error {
	query := `
		UPDATE flags
		SET title = $2, description = $3, severity = $4, resolved_at = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		f.ID().String(),
		f.Title(),
		nullString(f.Description()),
		f.Severity().String(),
		nullTime(f.ResolvedAt()),
		f.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update flag: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// Delete removes a flag.
func (r *FlagRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM flags WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete flag: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ListByProperty returns flags for a property, open first, newest first.
// Resolved flags are excluded unless includeResolved is set.
func (r *FlagRepository) ListByProperty(ctx context.Context, propertyID shared.ID, includeResolved bool) ([]*flag.Flag, error) {
	query := `SELECT ` + flagColumns + ` FROM flags WHERE property_id = $1`
	if !includeResolved {
		query += ` AND resolved_at IS NULL`
	}
	query += ` ORDER BY resolved_at NULLS FIRST, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, propertyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list flags: %w", err)
	}
	defer rows.Close()

	var flags []*flag.Flag
	for rows.Next() {
		f, err := r.scanFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flags: %w", err)
	}

	return flags, nil
}

// CountOpen returns the number of unresolved flags across all properties.
func (r *FlagRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flags WHERE resolved_at IS NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open flags: %w", err)
	}
	return count, nil
}

func (r *FlagRepository) scanFlag(row rowScanner) (*flag.Flag, error) {
	var (
		idStr         string
		propertyIDStr string
		title         string
		description   sql.NullString
		severity      string
		resolvedAt    sql.NullTime
		raisedByStr   string
		createdAt     sql.NullTime
		updatedAt     sql.NullTime
	)

	err := row.Scan(&idStr, &propertyIDStr, &title, &description, &severity, &resolvedAt, &raisedByStr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan flag: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid flag ID: %w", err)
	}
	propertyID, err := shared.IDFromString(propertyIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}
	raisedBy, err := shared.IDFromString(raisedByStr)
	if err != nil {
		return nil, fmt.Errorf("invalid raiser ID: %w", err)
	}

	return flag.Reconstitute(
		id,
		propertyID,
		title,
		nullStringValue(description),
		flag.Severity(severity),
		nullTimeValue(resolvedAt),
		raisedBy,
		createdAt.Time,
		updatedAt.Time,
	), nil
}
