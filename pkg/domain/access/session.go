package access

import (
	"github.com/propertypassport/api/pkg/domain/shared"
)

// Session is the per-request read projection of a user's identity and
// property roles. It is assembled fresh from the users and
// property_stakeholders tables on every request and never persisted.
type Session struct {
	userID        shared.ID
	email         string
	fullName      string
	primaryRole   PrimaryRole // empty if unset
	isAdmin       bool
	propertyRoles map[shared.ID]PropertyRole
}

// NewSession creates a Session from already-fetched rows.
// stakeholders maps property ID to that user's stakeholder rows.
// createdPropertyIDs are properties the user created: the creator is treated
// as owner with editor permission even absent an explicit stakeholder row.
func NewSession(
	userID shared.ID,
	email, fullName string,
	primaryRole PrimaryRole,
	isAdmin bool,
	stakeholders map[shared.ID][]StakeholderRow,
	createdPropertyIDs []shared.ID,
) *Session {
	roles := make(map[shared.ID]PropertyRole, len(stakeholders)+len(createdPropertyIDs))
	for propertyID, rows := range stakeholders {
		roles[propertyID] = MergeRows(rows)
	}
	for _, propertyID := range createdPropertyIDs {
		role, ok := roles[propertyID]
		if !ok {
			role = NewPropertyRole()
		}
		roles[propertyID] = role.Merge(StakeholderRow{Status: StatusOwner, Permission: PermissionEditor})
	}
	return &Session{
		userID:        userID,
		email:         email,
		fullName:      fullName,
		primaryRole:   primaryRole,
		isAdmin:       isAdmin,
		propertyRoles: roles,
	}
}

// UserID returns the user's ID.
func (s *Session) UserID() shared.ID {
	return s.userID
}

// Email returns the user's email.
func (s *Session) Email() string {
	return s.email
}

// FullName returns the user's display name.
func (s *Session) FullName() string {
	return s.fullName
}

// PrimaryRole returns the account-level role, empty if unset.
func (s *Session) PrimaryRole() PrimaryRole {
	return s.primaryRole
}

// IsAdmin reports whether the user is a platform admin.
func (s *Session) IsAdmin() bool {
	return s.isAdmin
}

// PropertyRole returns the merged role for a property and whether any role
// exists.
func (s *Session) PropertyRole(propertyID shared.ID) (PropertyRole, bool) {
	role, ok := s.propertyRoles[propertyID]
	return role, ok
}

// PropertyIDs returns the IDs of all properties the session holds a role on.
func (s *Session) PropertyIDs() []shared.ID {
	out := make([]shared.ID, 0, len(s.propertyRoles))
	for id := range s.propertyRoles {
		out = append(out, id)
	}
	return out
}

// ownsAnyProperty reports whether any property role carries owner status.
func (s *Session) ownsAnyProperty() bool {
	for _, role := range s.propertyRoles {
		if role.HasStatus(StatusOwner) {
			return true
		}
	}
	return false
}

// DeriveDashboardRole computes the single effective dashboard role.
//
// Precedence, in order: admin flag, agent primary role, conveyancer primary
// role, owner status on any property, buyer. Agent and conveyancer primary
// roles outrank property-level ownership. Unknown or missing primary roles
// fall through to buyer, the most restricted role.
func DeriveDashboardRole(s *Session) DashboardRole {
	switch {
	case s.isAdmin:
		return RoleAdmin
	case s.primaryRole == PrimaryAgent:
		return RoleAgent
	case s.primaryRole == PrimaryConveyancer:
		return RoleConveyancer
	case s.ownsAnyProperty():
		return RoleOwner
	default:
		return RoleBuyer
	}
}
