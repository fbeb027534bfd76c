// Package invitation defines invitations granting a user a role on a
// property.
package invitation

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// DefaultExpiry is how long an invitation remains acceptable.
const DefaultExpiry = 7 * 24 * time.Hour

// State is an invitation's lifecycle state.
type State string

const (
	StatePending  State = "pending"
	StateAccepted State = "accepted"
	StateDeclined State = "declined"
	StateExpired  State = "expired"
	StateRevoked  State = "revoked"
)

// Invitation invites an email address to take a status and permission on a
// property. The token is the sole authorization for accept/decline.
type Invitation struct {
	id         shared.ID
	propertyID shared.ID
	email      string
	status     access.Status
	permission access.Permission
	token      string
	invitedBy  shared.ID
	state      State
	expiresAt  time.Time
	resolvedAt *time.Time
	createdAt  time.Time
}

// New creates a pending Invitation with a fresh token.
func New(propertyID shared.ID, email string, status access.Status, permission access.Permission, invitedBy shared.ID) (*Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if propertyID.IsZero() {
		return nil, fmt.Errorf("%w: propertyID is required", shared.ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", shared.ErrValidation, status)
	}
	if !permission.IsValid() {
		return nil, fmt.Errorf("%w: invalid permission %q", shared.ErrValidation, permission)
	}
	if invitedBy.IsZero() {
		return nil, fmt.Errorf("%w: invitedBy is required", shared.ErrValidation)
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now().UTC()
	return &Invitation{
		id:         shared.NewID(),
		propertyID: propertyID,
		email:      email,
		status:     status,
		permission: permission,
		token:      token,
		invitedBy:  invitedBy,
		state:      StatePending,
		expiresAt:  now.Add(DefaultExpiry),
		createdAt:  now,
	}, nil
}

// Reconstitute recreates an Invitation from persistence.
func Reconstitute(
	id, propertyID shared.ID,
	email string,
	status access.Status,
	permission access.Permission,
	token string,
	invitedBy shared.ID,
	state State,
	expiresAt time.Time,
	resolvedAt *time.Time,
	createdAt time.Time,
) *Invitation {
	return &Invitation{
		id:         id,
		propertyID: propertyID,
		email:      email,
		status:     status,
		permission: permission,
		token:      token,
		invitedBy:  invitedBy,
		state:      state,
		expiresAt:  expiresAt,
		resolvedAt: resolvedAt,
		createdAt:  createdAt,
	}
}

// ID returns the invitation ID.
func (i *Invitation) ID() shared.ID { return i.id }

// PropertyID returns the property the invitation grants access to.
func (i *Invitation) PropertyID() shared.ID { return i.propertyID }

// Email returns the invited email address.
func (i *Invitation) Email() string { return i.email }

// Status returns the proposed stakeholder status.
func (i *Invitation) Status() access.Status { return i.status }

// Permission returns the proposed permission.
func (i *Invitation) Permission() access.Permission { return i.permission }

// Token returns the invitation token.
func (i *Invitation) Token() string { return i.token }

// InvitedBy returns the inviter's user ID.
func (i *Invitation) InvitedBy() shared.ID { return i.invitedBy }

// State returns the lifecycle state as stored. Use EffectiveState for a
// clock-aware value.
func (i *Invitation) State() State { return i.state }

// ExpiresAt returns the expiry time.
func (i *Invitation) ExpiresAt() time.Time { return i.expiresAt }

// ResolvedAt returns when the invitation was accepted/declined/revoked.
func (i *Invitation) ResolvedAt() *time.Time { return i.resolvedAt }

// CreatedAt returns the creation time.
func (i *Invitation) CreatedAt() time.Time { return i.createdAt }

// EffectiveState returns the state, reporting pending-but-expired rows as
// expired even before the sweeper has marked them.
func (i *Invitation) EffectiveState(now time.Time) State {
	if i.state == StatePending && now.After(i.expiresAt) {
		return StateExpired
	}
	return i.state
}

// IsPending reports whether the invitation can still be accepted at the
// given time.
func (i *Invitation) IsPending(now time.Time) bool {
	return i.EffectiveState(now) == StatePending
}

// Accept transitions the invitation to accepted.
func (i *Invitation) Accept(now time.Time) error {
	return i.resolve(StateAccepted, now)
}

// Decline transitions the invitation to declined.
func (i *Invitation) Decline(now time.Time) error {
	return i.resolve(StateDeclined, now)
}

// Revoke transitions the invitation to revoked.
func (i *Invitation) Revoke(now time.Time) error {
	return i.resolve(StateRevoked, now)
}

// MarkExpired marks a pending invitation expired. Used by the sweeper.
func (i *Invitation) MarkExpired(now time.Time) error {
	if i.state != StatePending {
		return fmt.Errorf("%w: invitation is %s", shared.ErrConflict, i.state)
	}
	now = now.UTC()
	i.state = StateExpired
	i.resolvedAt = &now
	return nil
}

func (i *Invitation) resolve(to State, now time.Time) error {
	if !i.IsPending(now) {
		return fmt.Errorf("%w: invitation is %s", shared.ErrConflict, i.EffectiveState(now))
	}
	now = now.UTC()
	i.state = to
	i.resolvedAt = &now
	return nil
}

// generateToken returns a URL-safe random token.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Repository defines persistence operations for invitations.
type Repository interface {
	Create(ctx context.Context, i *Invitation) error
	GetByID(ctx context.Context, id shared.ID) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	Update(ctx context.Context, i *Invitation) error
	ListByProperty(ctx context.Context, propertyID shared.ID) ([]*Invitation, error)
	ListByEmail(ctx context.Context, email string) ([]*Invitation, error)
	// MarkExpiredBefore marks pending invitations with expiry before the
	// cutoff as expired, returning how many rows changed.
	MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
