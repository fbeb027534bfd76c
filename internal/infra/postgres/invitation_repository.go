package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/invitation"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// InvitationRepository implements invitation.Repository using PostgreSQL.
type InvitationRepository struct {
	db *DB
}

// NewInvitationRepository creates a new InvitationRepository.
func NewInvitationRepository(db *DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `id, property_id, email, status, permission, token, invited_by, state, expires_at, resolved_at, created_at`

// Create persists a new invitation.
func (r *InvitationRepository) Create(ctx context.Context, i *invitation.Invitation) error {
	query := `
		INSERT INTO invitations (id, property_id, email, status, permission, token, invited_by, state, expires_at, resolved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		i.ID().String(),
		i.PropertyID().String(),
		i.Email(),
		i.Status().String(),
		i.Permission().String(),
		i.Token(),
		i.InvitedBy().String(),
		string(i.State()),
		i.ExpiresAt(),
		nullTime(i.ResolvedAt()),
		i.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

// GetByID retrieves an invitation by ID.
func (r *InvitationRepository) GetByID(ctx context.Context, id shared.ID) (*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return r.scanInvitation(r.db.QueryRowContext(ctx, query, id.String()))
}

// GetByToken retrieves an invitation by its opaque token.
func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`
	return r.scanInvitation(r.db.QueryRowContext(ctx, query, token))
}

// Update updates an existing invitation.
func (r *InvitationRepository) Update(ctx context.Context, i *invitation.Invitation) error {
	query := `
		UPDATE invitations
		SET state = $2, resolved_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		i.ID().String(),
		string(i.State()),
		nullTime(i.ResolvedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ListByProperty returns all invitations for a property, newest first.
func (r *InvitationRepository) ListByProperty(ctx context.Context, propertyID shared.ID) ([]*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE property_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, propertyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	return r.collectInvitations(rows)
}

// ListByEmail returns all invitations addressed to an email, newest first.
func (r *InvitationRepository) ListByEmail(ctx context.Context, email string) ([]*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE email = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	return r.collectInvitations(rows)
}

// MarkExpiredBefore marks pending invitations with expiry before the cutoff
// as expired, returning how many rows changed.
func (r *InvitationRepository) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE invitations
		SET state = 'expired', resolved_at = NOW()
		WHERE state = 'pending' AND expires_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire invitations: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read expired invitation count: %w", err)
	}

	return rows, nil
}

func (r *InvitationRepository) collectInvitations(rows *sql.Rows) ([]*invitation.Invitation, error) {
	var invitations []*invitation.Invitation
	for rows.Next() {
		i, err := r.scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}
	return invitations, nil
}

func (r *InvitationRepository) scanInvitation(row rowScanner) (*invitation.Invitation, error) {
	var (
		idStr         string
		propertyIDStr string
		email         string
		status        string
		permission    string
		token         string
		invitedByStr  string
		state         string
		expiresAt     sql.NullTime
		resolvedAt    sql.NullTime
		createdAt     sql.NullTime
	)

	err := row.Scan(&idStr, &propertyIDStr, &email, &status, &permission, &token, &invitedByStr, &state, &expiresAt, &resolvedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan invitation: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid invitation ID: %w", err)
	}
	propertyID, err := shared.IDFromString(propertyIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}
	invitedBy, err := shared.IDFromString(invitedByStr)
	if err != nil {
		return nil, fmt.Errorf("invalid inviter ID: %w", err)
	}

	return invitation.Reconstitute(
		id,
		propertyID,
		email,
		access.Status(status),
		access.Permission(permission),
		token,
		invitedBy,
		invitation.State(state),
		expiresAt.Time,
		nullTimeValue(resolvedAt),
		createdAt.Time,
	), nil
}
