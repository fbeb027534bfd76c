package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
)

// StakeholderRepository implements stakeholder.Repository using PostgreSQL.
type StakeholderRepository struct {
	db *DB
}

// NewStakeholderRepository creates a new StakeholderRepository.
func NewStakeholderRepository(db *DB) *StakeholderRepository {
	return &StakeholderRepository{db: db}
}

const stakeholderColumns = `id, property_id, user_id, status, permission, granted_by, created_at, updated_at`

// Upsert inserts the stakeholder row, widening the permission when a row for
// the same (property, user, status) already exists. A viewer grant never
// downgrades an existing editor.
func (r *StakeholderRepository) Upsert(ctx context.Context, s *stakeholder.Stakeholder) error {
	query := `
		INSERT INTO property_stakeholders (id, property_id, user_id, status, permission, granted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (property_id, user_id, status) DO UPDATE
		SET permission = CASE
				WHEN property_stakeholders.permission = 'editor' THEN 'editor'
				ELSE EXCLUDED.permission
			END,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID().String(),
		s.PropertyID().String(),
		s.UserID().String(),
		s.Status().String(),
		s.Permission().String(),
		nullID(s.GrantedBy()),
		s.CreatedAt(),
		s.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stakeholder: %w", err)
	}

	return nil
}

// Delete removes a single stakeholder role row.
func (r *StakeholderRepository) Delete(ctx context.Context, propertyID, userID shared.ID, status access.Status) error {
	query := `DELETE FROM property_stakeholders WHERE property_id = $1 AND user_id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, propertyID.String(), userID.String(), status.String())
	if err != nil {
		return fmt.Errorf("failed to delete stakeholder: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// DeleteAllForUser removes every stakeholder row a user holds on a property.
func (r *StakeholderRepository) DeleteAllForUser(ctx context.Context, propertyID, userID shared.ID) error {
	query := `DELETE FROM property_stakeholders WHERE property_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, propertyID.String(), userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete stakeholders: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ListByProperty returns all stakeholder rows for a property.
func (r *StakeholderRepository) ListByProperty(ctx context.Context, propertyID shared.ID) ([]*stakeholder.Stakeholder, error) {
	query := `SELECT ` + stakeholderColumns + ` FROM property_stakeholders WHERE property_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, propertyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list stakeholders: %w", err)
	}
	defer rows.Close()

	return r.collectStakeholders(rows)
}

// ListByUser returns all stakeholder rows a user holds across properties.
func (r *StakeholderRepository) ListByUser(ctx context.Context, userID shared.ID) ([]*stakeholder.Stakeholder, error) {
	query := `SELECT ` + stakeholderColumns + ` FROM property_stakeholders WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list stakeholders: %w", err)
	}
	defer rows.Close()

	return r.collectStakeholders(rows)
}

// HasRole reports whether the user holds the given status on a property.
func (r *StakeholderRepository) HasRole(ctx context.Context, propertyID, userID shared.ID, status access.Status) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM property_stakeholders WHERE property_id = $1 AND user_id = $2 AND status = $3)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, propertyID.String(), userID.String(), status.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check stakeholder role: %w", err)
	}

	return exists, nil
}

// CanEdit invokes the can_edit_property database predicate.
func (r *StakeholderRepository) CanEdit(ctx context.Context, propertyID, userID shared.ID) (bool, error) {
	var allowed bool
	err := r.db.QueryRowContext(ctx, `SELECT can_edit_property($1, $2)`, propertyID.String(), userID.String()).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate edit permission: %w", err)
	}
	return allowed, nil
}

// CanView invokes the can_view_property database predicate.
func (r *StakeholderRepository) CanView(ctx context.Context, propertyID, userID shared.ID) (bool, error) {
	var allowed bool
	err := r.db.QueryRowContext(ctx, `SELECT can_view_property($1, $2)`, propertyID.String(), userID.String()).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate view permission: %w", err)
	}
	return allowed, nil
}

func (r *StakeholderRepository) collectStakeholders(rows *sql.Rows) ([]*stakeholder.Stakeholder, error) {
	var stakeholders []*stakeholder.Stakeholder
	for rows.Next() {
		s, err := r.scanStakeholder(rows)
		if err != nil {
			return nil, err
		}
		stakeholders = append(stakeholders, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stakeholders: %w", err)
	}
	return stakeholders, nil
}

func (r *StakeholderRepository) scanStakeholder(row rowScanner) (*stakeholder.Stakeholder, error) {
	var (
		idStr         string
		propertyIDStr string
		userIDStr     string
		status        string
		permission    string
		grantedBy     sql.NullString
		createdAt     sql.NullTime
		updatedAt     sql.NullTime
	)

	err := row.Scan(&idStr, &propertyIDStr, &userIDStr, &status, &permission, &grantedBy, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan stakeholder: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stakeholder ID: %w", err)
	}
	propertyID, err := shared.IDFromString(propertyIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}
	userID, err := shared.IDFromString(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	return stakeholder.Reconstitute(
		id,
		propertyID,
		userID,
		access.Status(status),
		access.Permission(permission),
		parseNullID(grantedBy),
		createdAt.Time,
		updatedAt.Time,
	), nil
}
