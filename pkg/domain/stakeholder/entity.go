// Package stakeholder defines the property stakeholder link: one user's
// status and permission on one property.
package stakeholder

import (
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// Stakeholder links a user to a property with a status and permission.
// One (user, property, status) triple per row; permission merging across a
// user's rows happens in the access package.
type Stakeholder struct {
	id         shared.ID
	propertyID shared.ID
	userID     shared.ID
	status     access.Status
	permission access.Permission
	grantedBy  *shared.ID // nil for the creator backfill row
	createdAt  time.Time
	updatedAt  time.Time
}

// New creates a new Stakeholder row.
func New(propertyID, userID shared.ID, status access.Status, permission access.Permission, grantedBy *shared.ID) (*Stakeholder, error) {
	if propertyID.IsZero() {
		return nil, fmt.Errorf("%w: propertyID is required", shared.ErrValidation)
	}
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: userID is required", shared.ErrValidation)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", shared.ErrValidation, status)
	}
	if !permission.IsValid() {
		return nil, fmt.Errorf("%w: invalid permission %q", shared.ErrValidation, permission)
	}

	now := time.Now().UTC()
	return &Stakeholder{
		id:         shared.NewID(),
		propertyID: propertyID,
		userID:     userID,
		status:     status,
		permission: permission,
		grantedBy:  grantedBy,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// NewOwner creates the stakeholder row for a property's creator.
func NewOwner(propertyID, userID shared.ID) (*Stakeholder, error) {
	return New(propertyID, userID, access.StatusOwner, access.PermissionEditor, nil)
}

// Reconstitute recreates a Stakeholder from persistence.
func Reconstitute(
	id, propertyID, userID shared.ID,
	status access.Status,
	permission access.Permission,
	grantedBy *shared.ID,
	createdAt, updatedAt time.Time,
) *Stakeholder {
	return &Stakeholder{
		id:         id,
		propertyID: propertyID,
		userID:     userID,
		status:     status,
		permission: permission,
		grantedBy:  grantedBy,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the row ID.
func (s *Stakeholder) ID() shared.ID { return s.id }

// PropertyID returns the property ID.
func (s *Stakeholder) PropertyID() shared.ID { return s.propertyID }

// UserID returns the stakeholder's user ID.
func (s *Stakeholder) UserID() shared.ID { return s.userID }

// Status returns the stakeholder status.
func (s *Stakeholder) Status() access.Status { return s.status }

// Permission returns the granted permission.
func (s *Stakeholder) Permission() access.Permission { return s.permission }

// GrantedBy returns the granting user's ID, nil for creator rows.
func (s *Stakeholder) GrantedBy() *shared.ID { return s.grantedBy }

// CreatedAt returns the creation time.
func (s *Stakeholder) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the last update time.
func (s *Stakeholder) UpdatedAt() time.Time { return s.updatedAt }

// WidenPermission upgrades the permission, never downgrading editor.
func (s *Stakeholder) WidenPermission(p access.Permission) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: invalid permission %q", shared.ErrValidation, p)
	}
	if s.permission == access.PermissionEditor {
		return nil
	}
	s.permission = p
	s.updatedAt = time.Now().UTC()
	return nil
}

// Row converts the entity to the access package's merge input.
func (s *Stakeholder) Row() access.StakeholderRow {
	return access.StakeholderRow{Status: s.status, Permission: s.permission}
}
