package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/invitation"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
)

type stubInvitationRepo struct {
	invitation.Repository

	byToken map[string]*invitation.Invitation
	updated *invitation.Invitation
}

func (s *stubInvitationRepo) GetByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	inv, ok := s.byToken[token]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return inv, nil
}

func (s *stubInvitationRepo) Update(ctx context.Context, i *invitation.Invitation) error {
	s.updated = i
	return nil
}

type recordingStakeholderRepo struct {
	stakeholder.Repository

	upserted []*stakeholder.Stakeholder
}

func (s *recordingStakeholderRepo) Upsert(ctx context.Context, row *stakeholder.Stakeholder) error {
	s.upserted = append(s.upserted, row)
	return nil
}

func testUserWithEmail(t *testing.T, id shared.ID, email string) *user.User {
	t.Helper()
	u, err := user.New(email, "Someone", "hash", access.PrimaryConsumer)
	require.NoError(t, err)
	return user.Reconstitute(id, u.Email(), u.FullName(), u.PasswordHash(), u.PrimaryRole(), false, nil, u.CreatedAt(), u.UpdatedAt())
}

func newTestInvitationService(invitations *stubInvitationRepo, stakeholders *recordingStakeholderRepo, users map[shared.ID]*user.User) *InvitationService {
	userRepo := &stubUserRepo{users: users}
	access := NewAccessService(&stubStakeholderRepo{}, userRepo, logger.NewDefault())
	events := NewEventService(&stubEventRepo{}, logger.NewDefault())
	return NewInvitationService(invitations, stakeholders, nil, userRepo, access, events, logger.NewDefault())
}

func TestInvitationService_AcceptGrantsRole(t *testing.T) {
	userID := shared.NewID()
	inviterID := shared.NewID()
	propertyID := shared.NewID()

	inv, err := invitation.New(propertyID, "buyer@example.com", access.StatusBuyer, access.PermissionViewer, inviterID)
	require.NoError(t, err)

	invitations := &stubInvitationRepo{byToken: map[string]*invitation.Invitation{inv.Token(): inv}}
	stakeholders := &recordingStakeholderRepo{}
	svc := newTestInvitationService(invitations, stakeholders, map[shared.ID]*user.User{
		userID: testUserWithEmail(t, userID, "buyer@example.com"),
	})

	accepted, err := svc.Accept(context.Background(), inv.Token(), userID)
	require.NoError(t, err)
	assert.Equal(t, invitation.StateAccepted, accepted.State())
	require.NotNil(t, invitations.updated)

	require.Len(t, stakeholders.upserted, 1)
	row := stakeholders.upserted[0]
	assert.Equal(t, propertyID, row.PropertyID())
	assert.Equal(t, userID, row.UserID())
	assert.Equal(t, access.StatusBuyer, row.Status())
	assert.Equal(t, access.PermissionViewer, row.Permission())
}

func TestInvitationService_AcceptRejectsWrongEmail(t *testing.T) {
	userID := shared.NewID()
	propertyID := shared.NewID()

	inv, err := invitation.New(propertyID, "buyer@example.com", access.StatusBuyer, access.PermissionViewer, shared.NewID())
	require.NoError(t, err)

	invitations := &stubInvitationRepo{byToken: map[string]*invitation.Invitation{inv.Token(): inv}}
	stakeholders := &recordingStakeholderRepo{}
	svc := newTestInvitationService(invitations, stakeholders, map[shared.ID]*user.User{
		userID: testUserWithEmail(t, userID, "other@example.com"),
	})

	_, err = svc.Accept(context.Background(), inv.Token(), userID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, stakeholders.upserted, "no role is granted on a rejected accept")
}

func TestInvitationService_AcceptCaseInsensitiveEmail(t *testing.T) {
	userID := shared.NewID()
	propertyID := shared.NewID()

	inv, err := invitation.New(propertyID, "Buyer@Example.com", access.StatusBuyer, access.PermissionViewer, shared.NewID())
	require.NoError(t, err)

	invitations := &stubInvitationRepo{byToken: map[string]*invitation.Invitation{inv.Token(): inv}}
	svc := newTestInvitationService(invitations, &recordingStakeholderRepo{}, map[shared.ID]*user.User{
		userID: testUserWithEmail(t, userID, "BUYER@example.com"),
	})

	_, err = svc.Accept(context.Background(), inv.Token(), userID)
	assert.NoError(t, err)
}

func TestInvitationService_AcceptExpiredConflicts(t *testing.T) {
	userID := shared.NewID()
	propertyID := shared.NewID()

	fresh, err := invitation.New(propertyID, "buyer@example.com", access.StatusBuyer, access.PermissionViewer, shared.NewID())
	require.NoError(t, err)
	expired := invitation.Reconstitute(
		fresh.ID(), propertyID, fresh.Email(), fresh.Status(), fresh.Permission(), fresh.Token(),
		fresh.InvitedBy(), invitation.StatePending, time.Now().Add(-time.Hour), nil, fresh.CreatedAt(),
	)

	invitations := &stubInvitationRepo{byToken: map[string]*invitation.Invitation{expired.Token(): expired}}
	stakeholders := &recordingStakeholderRepo{}
	svc := newTestInvitationService(invitations, stakeholders, map[shared.ID]*user.User{
		userID: testUserWithEmail(t, userID, "buyer@example.com"),
	})

	_, err = svc.Accept(context.Background(), expired.Token(), userID)
	assert.ErrorIs(t, err, shared.ErrConflict, "pending past expiry reads as expired")
	assert.Empty(t, stakeholders.upserted)
}
