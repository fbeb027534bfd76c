package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/jwt"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/password"
)

type stubAuthUserRepo struct {
	user.Repository

	byEmail map[string]*user.User
	created *user.User
}

func (s *stubAuthUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, ok := s.byEmail[u.Email()]; ok {
		return shared.ErrAlreadyExists
	}
	if s.byEmail == nil {
		s.byEmail = make(map[string]*user.User)
	}
	s.byEmail[u.Email()] = u
	s.created = u
	return nil
}

func (s *stubAuthUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (s *stubAuthUserRepo) GetByID(ctx context.Context, id shared.ID) (*user.User, error) {
	for _, u := range s.byEmail {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubAuthUserRepo) Update(ctx context.Context, u *user.User) error {
	return nil
}

type stubWelcomeEnqueuer struct {
	err    error
	called bool
}

func (s *stubWelcomeEnqueuer) EnqueueWelcome(ctx context.Context, email, name, userID string) error {
	s.called = true
	return s.err
}

func testTokenGenerator() *jwt.Generator {
	return jwt.NewGenerator(jwt.TokenConfig{
		Secret:               "test-secret-test-secret-test-secret",
		Issuer:               "test",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
	})
}

func newTestAuthService(repo *stubAuthUserRepo, allowRegistration bool, opts ...AuthServiceOption) *AuthService {
	hasher := password.New(password.WithCost(4))
	return NewAuthService(repo, hasher, testTokenGenerator(), allowRegistration, logger.NewDefault(), opts...)
}

func TestAuthService_RegisterDisabled(t *testing.T) {
	svc := newTestAuthService(&stubAuthUserRepo{}, false)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		FullName:    "New User",
		Password:    "Longenough1",
		PrimaryRole: "consumer",
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestAuthService_RegisterRejectsAdminRole(t *testing.T) {
	svc := newTestAuthService(&stubAuthUserRepo{}, true)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		FullName:    "New User",
		Password:    "Longenough1",
		PrimaryRole: "admin",
	})
	assert.ErrorIs(t, err, shared.ErrValidation, "admin cannot be self-assigned")
}

func TestAuthService_RegisterDuplicateEmailConflicts(t *testing.T) {
	repo := &stubAuthUserRepo{}
	svc := newTestAuthService(repo, true)

	input := RegisterInput{
		Email:       "new@example.com",
		FullName:    "New User",
		Password:    "Longenough1",
		PrimaryRole: "consumer",
	}

	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestAuthService_RegisterSurvivesEnqueueFailure(t *testing.T) {
	repo := &stubAuthUserRepo{}
	enqueuer := &stubWelcomeEnqueuer{err: errors.New("queue down")}
	svc := newTestAuthService(repo, true, WithWelcomeEmailEnqueuer(enqueuer))

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		FullName:    "New User",
		Password:    "Longenough1",
		PrimaryRole: "consumer",
	})
	require.NoError(t, err, "welcome email is best effort")
	assert.True(t, enqueuer.called)
	assert.NotNil(t, result.Tokens)
	assert.False(t, result.User.IsAdmin())
}

func TestAuthService_LoginWrongPasswordIndistinguishable(t *testing.T) {
	repo := &stubAuthUserRepo{}
	svc := newTestAuthService(repo, true)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "known@example.com",
		FullName:    "Known User",
		Password:    "Longenough1",
		PrimaryRole: "consumer",
	})
	require.NoError(t, err)

	_, errWrongPassword := svc.Login(context.Background(), LoginInput{Email: "known@example.com", Password: "Wrongpass1"})
	_, errUnknownEmail := svc.Login(context.Background(), LoginInput{Email: "unknown@example.com", Password: "Longenough1"})

	assert.ErrorIs(t, errWrongPassword, shared.ErrUnauthorized)
	assert.ErrorIs(t, errUnknownEmail, shared.ErrUnauthorized)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error(), "both failures read identically")
}

func TestAuthService_RefreshReflectsRoleChanges(t *testing.T) {
	repo := &stubAuthUserRepo{}
	svc := newTestAuthService(repo, true)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		FullName:    "New User",
		Password:    "Longenough1",
		PrimaryRole: "consumer",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)

	// Promote the user after the original tokens were issued.
	repo.created.GrantAdmin()

	pair, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	require.NoError(t, err)

	claims, err := testTokenGenerator().ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin, "refresh re-reads claims from the user record")
}

type stubTokenRevoker struct {
	revoked map[string]bool
	err     error
}

func (s *stubTokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	if s.revoked == nil {
		s.revoked = make(map[string]bool)
	}
	s.revoked[jti] = true
	return nil
}

func (s *stubTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[jti], nil
}

func TestAuthService_LogoutRevokesRefresh(t *testing.T) {
	repo := &stubAuthUserRepo{}
	revoker := &stubTokenRevoker{}
	svc := newTestAuthService(repo, true, WithTokenRevoker(revoker))

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		FullName:    "New User",
		Password:    "Longenough1",
		PrimaryRole: "consumer",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	require.NoError(t, err, "token refreshes before logout")

	require.NoError(t, svc.Logout(context.Background(), result.Tokens.RefreshToken))

	_, err = svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized, "revoked token no longer refreshes")
}

func TestAuthService_LogoutWithGarbageTokenIsIdempotent(t *testing.T) {
	svc := newTestAuthService(&stubAuthUserRepo{}, true, WithTokenRevoker(&stubTokenRevoker{}))

	assert.NoError(t, svc.Logout(context.Background(), "not-a-token"))
}

func TestAuthService_RefreshDeniedWhenRevocationCheckFails(t *testing.T) {
	repo := &stubAuthUserRepo{}
	revoker := &stubTokenRevoker{err: errors.New("redis down")}
	svc := newTestAuthService(repo, true, WithTokenRevoker(revoker))

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.com",
		FullName:    "New User",
		Password:    "Longenough1",
		PrimaryRole: "consumer",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized, "unverifiable tokens are refused")
}
