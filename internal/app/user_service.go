package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/password"
)

// UserService handles user profiles and admin user management.
type UserService struct {
	users  user.Repository
	hasher *password.Hasher
	logger *logger.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users user.Repository, hasher *password.Hasher, log *logger.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		logger: log.With("service", "user"),
	}
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, userID shared.ID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfileInput represents the input for updating a profile.
type UpdateProfileInput struct {
	FullName    string `json:"full_name" validate:"required,max=200"`
	PrimaryRole string `json:"primary_role" validate:"required,primary_role"`
}

// UpdateProfile updates the user's name and primary role. Admin cannot be
// self-assigned through this path.
func (s *UserService) UpdateProfile(ctx context.Context, userID shared.ID, input UpdateProfileInput) (*user.User, error) {
	role, ok := access.ParsePrimaryRole(input.PrimaryRole)
	if !ok || role == access.PrimaryAdmin {
		return nil, fmt.Errorf("%w: invalid primary role '%s'", shared.ErrValidation, input.PrimaryRole)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.UpdateProfile(input.FullName, role); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// ChangePasswordInput represents the input for changing a password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// ChangePassword verifies the current password and sets a new one.
func (s *UserService) ChangePassword(ctx context.Context, userID shared.ID, input ChangePasswordInput) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(input.CurrentPassword, u.PasswordHash()); err != nil {
		if errors.Is(err, password.ErrPasswordMismatch) {
			return fmt.Errorf("%w: current password is incorrect", shared.ErrUnauthorized)
		}
		return err
	}

	if err := s.hasher.ValidatePolicy(input.NewPassword); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := u.SetPasswordHash(hash); err != nil {
		return err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("password changed", "user_id", userID.String())
	return nil
}

// List returns users for the admin panel.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*user.User, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, offset, limit)
}

// GrantAdmin elevates a user to admin.
func (s *UserService) GrantAdmin(ctx context.Context, userID string) (*user.User, error) {
	id, err := shared.IDFromString(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.GrantAdmin()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("admin granted", "user_id", id.String())
	return u, nil
}

// Delete removes a user account. Stakeholder rows, watchlist entries, and
// invitations cascade in the database.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	id, err := shared.IDFromString(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id.String())
	return nil
}
