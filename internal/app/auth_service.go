package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/jwt"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/password"
)

// WelcomeEmailEnqueuer defines the interface for enqueueing welcome emails.
type WelcomeEmailEnqueuer interface {
	EnqueueWelcome(ctx context.Context, email, name, userID string) error
}

// TokenRevoker tracks revoked refresh token IDs. Logout records a jti and
// Refresh rejects tokens found in the set.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService handles registration, login, and token refresh.
type AuthService struct {
	users             user.Repository
	hasher            *password.Hasher
	tokens            *jwt.Generator
	allowRegistration bool
	welcomeEnqueuer   WelcomeEmailEnqueuer
	revoker           TokenRevoker
	logger            *logger.Logger
}

// AuthServiceOption configures an AuthService.
type AuthServiceOption func(*AuthService)

// WithWelcomeEmailEnqueuer sets the welcome email job enqueuer.
func WithWelcomeEmailEnqueuer(enqueuer WelcomeEmailEnqueuer) AuthServiceOption {
	return func(s *AuthService) {
		s.welcomeEnqueuer = enqueuer
	}
}

// WithTokenRevoker enables refresh token revocation on logout. Without it,
// logout is a no-op on the server side and tokens live out their TTL.
func WithTokenRevoker(revoker TokenRevoker) AuthServiceOption {
	return func(s *AuthService) {
		s.revoker = revoker
	}
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users user.Repository,
	hasher *password.Hasher,
	tokens *jwt.Generator,
	allowRegistration bool,
	log *logger.Logger,
	opts ...AuthServiceOption,
) *AuthService {
	s := &AuthService{
		users:             users,
		hasher:            hasher,
		tokens:            tokens,
		allowRegistration: allowRegistration,
		logger:            log.With("service", "auth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput represents the input for registering a user.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name" validate:"required,max=200"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	PrimaryRole string `json:"primary_role" validate:"required,primary_role"`
}

// AuthResult carries the authenticated user and their token pair.
type AuthResult struct {
	User   *user.User     `json:"user"`
	Tokens *jwt.TokenPair `json:"tokens"`
}

// Register creates a new account. Admin cannot be self-assigned; the primary
// role only shapes the default dashboard, never permissions.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if !s.allowRegistration {
		return nil, fmt.Errorf("%w: registration is disabled", shared.ErrForbidden)
	}

	role, ok := access.ParsePrimaryRole(input.PrimaryRole)
	if !ok || role == access.PrimaryAdmin {
		return nil, fmt.Errorf("%w: invalid primary role '%s'", shared.ErrValidation, input.PrimaryRole)
	}

	if err := s.hasher.ValidatePolicy(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.New(input.Email, input.FullName, hash, role)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, u); err != nil {
		if shared.IsAlreadyExists(err) {
			return nil, fmt.Errorf("%w: email is already registered", shared.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", u.ID().String(), "role", role.String())

	// Welcome email is best effort; registration stands either way.
	if s.welcomeEnqueuer != nil {
		if err := s.welcomeEnqueuer.EnqueueWelcome(ctx, u.Email(), u.FullName(), u.ID().String()); err != nil {
			s.logger.Error("failed to enqueue welcome email", "user_id", u.ID().String(), "error", err)
		}
	}

	tokens, err := s.tokens.GenerateTokenPair(u.ID().String(), u.Email(), u.FullName(), u.PrimaryRole().String(), u.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResult{User: u, Tokens: tokens}, nil
}

// LoginInput represents the input for logging in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user by email and password. Unknown email and wrong
// password return the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, fmt.Errorf("%w: invalid email or password", shared.ErrUnauthorized)
		}
		return nil, err
	}

	if err := s.hasher.Verify(input.Password, u.PasswordHash()); err != nil {
		if errors.Is(err, password.ErrPasswordMismatch) {
			s.logger.Warn("failed login attempt", "user_id", u.ID().String())
			return nil, fmt.Errorf("%w: invalid email or password", shared.ErrUnauthorized)
		}
		return nil, err
	}

	u.RecordLogin(time.Now())
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Error("failed to record login time", "user_id", u.ID().String(), "error", err)
	}

	tokens, err := s.tokens.GenerateTokenPair(u.ID().String(), u.Email(), u.FullName(), u.PrimaryRole().String(), u.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID().String())
	return &AuthResult{User: u, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. Claims are
// re-read from the user record so role changes take effect on refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnauthorized, err.Error())
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error("revocation check failed", "error", err)
			return nil, fmt.Errorf("%w: could not verify token", shared.ErrUnauthorized)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token has been revoked", shared.ErrUnauthorized)
		}
	}

	userID, err := shared.IDFromString(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token subject", shared.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, fmt.Errorf("%w: account no longer exists", shared.ErrUnauthorized)
		}
		return nil, err
	}

	return s.tokens.GenerateTokenPair(u.ID().String(), u.Email(), u.FullName(), u.PrimaryRole().String(), u.IsAdmin())
}

// Logout revokes the presented refresh token. Invalid or already-expired
// tokens are treated as logged out, so the operation is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	if s.revoker == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}
