// Package user defines the user aggregate and its repository contract.
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// User represents a registered account.
type User struct {
	id           shared.ID
	email        string
	fullName     string
	passwordHash string
	primaryRole  access.PrimaryRole // empty if unset
	isAdmin      bool
	lastLoginAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// New creates a new User. primaryRole may be empty; a non-empty value must
// be valid.
func New(email, fullName, passwordHash string, primaryRole access.PrimaryRole) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", shared.ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password hash is required", shared.ErrValidation)
	}
	if primaryRole != "" && !primaryRole.IsValid() {
		return nil, fmt.Errorf("%w: invalid primary role %q", shared.ErrValidation, primaryRole)
	}

	now := time.Now().UTC()
	return &User{
		id:           shared.NewID(),
		email:        email,
		fullName:     fullName,
		passwordHash: passwordHash,
		primaryRole:  primaryRole,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstitute recreates a User from persistence.
func Reconstitute(
	id shared.ID,
	email, fullName, passwordHash string,
	primaryRole access.PrimaryRole,
	isAdmin bool,
	lastLoginAt *time.Time,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		fullName:     fullName,
		passwordHash: passwordHash,
		primaryRole:  primaryRole,
		isAdmin:      isAdmin,
		lastLoginAt:  lastLoginAt,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the user ID.
func (u *User) ID() shared.ID { return u.id }

// Email returns the user's email.
func (u *User) Email() string { return u.email }

// FullName returns the user's display name.
func (u *User) FullName() string { return u.fullName }

// PasswordHash returns the stored password hash.
func (u *User) PasswordHash() string { return u.passwordHash }

// PrimaryRole returns the account-level role, empty if unset.
func (u *User) PrimaryRole() access.PrimaryRole { return u.primaryRole }

// IsAdmin reports whether the user is a platform admin.
func (u *User) IsAdmin() bool { return u.isAdmin }

// LastLoginAt returns the last login time, nil if never logged in.
func (u *User) LastLoginAt() *time.Time { return u.lastLoginAt }

// CreatedAt returns the creation time.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last update time.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// UpdateProfile updates the user's display name and primary role.
func (u *User) UpdateProfile(fullName string, primaryRole access.PrimaryRole) error {
	if fullName == "" {
		return fmt.Errorf("%w: full name is required", shared.ErrValidation)
	}
	if primaryRole != "" && !primaryRole.IsValid() {
		return fmt.Errorf("%w: invalid primary role %q", shared.ErrValidation, primaryRole)
	}
	u.fullName = fullName
	u.primaryRole = primaryRole
	u.updatedAt = time.Now().UTC()
	return nil
}

// SetPasswordHash replaces the stored password hash.
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("%w: password hash is required", shared.ErrValidation)
	}
	u.passwordHash = hash
	u.updatedAt = time.Now().UTC()
	return nil
}

// GrantAdmin marks the user as a platform admin.
func (u *User) GrantAdmin() {
	u.isAdmin = true
	u.updatedAt = time.Now().UTC()
}

// RecordLogin records a successful login.
func (u *User) RecordLogin(at time.Time) {
	at = at.UTC()
	u.lastLoginAt = &at
	u.updatedAt = at
}
