package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
)

func newTestStakeholderService(props *stubPropertyStore, stks *stubRoleRepo, events *stubEventRepo, users map[shared.ID]*user.User) *StakeholderService {
	accessSvc := NewAccessService(stks, &stubUserRepo{users: users}, logger.NewDefault())
	return NewStakeholderService(stks, props, accessSvc, NewEventService(events, logger.NewDefault()), logger.NewDefault())
}

func TestStakeholderService_RevokeCreatorOwnershipDenied(t *testing.T) {
	adminID := shared.NewID()
	creatorID := shared.NewID()
	p := testProperty(t, creatorID, false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true}
	svc := newTestStakeholderService(props, stks, &stubEventRepo{}, map[shared.ID]*user.User{adminID: testUser(t, adminID, true)})

	err := svc.Revoke(context.Background(), p.ID().String(), creatorID.String(), string(access.StatusOwner), adminID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, stks.deletedStatus, "no row may be touched when the creator is the target")
}

func TestStakeholderService_RevokeCreatorNonOwnerRoleAllowed(t *testing.T) {
	adminID := shared.NewID()
	creatorID := shared.NewID()
	p := testProperty(t, creatorID, false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true}
	events := &stubEventRepo{}
	svc := newTestStakeholderService(props, stks, events, map[shared.ID]*user.User{adminID: testUser(t, adminID, true)})

	err := svc.Revoke(context.Background(), p.ID().String(), creatorID.String(), string(access.StatusBuyer), adminID)
	require.NoError(t, err, "only the creator's ownership is protected")
	assert.Equal(t, []access.Status{access.StatusBuyer}, stks.deletedStatus)
	assert.Len(t, events.recorded, 1)
}

func TestStakeholderService_RevokeOtherOwnerAllowed(t *testing.T) {
	editorID := shared.NewID()
	targetID := shared.NewID()
	p := testProperty(t, shared.NewID(), false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true}
	svc := newTestStakeholderService(props, stks, &stubEventRepo{}, map[shared.ID]*user.User{editorID: testUser(t, editorID, false)})

	err := svc.Revoke(context.Background(), p.ID().String(), targetID.String(), string(access.StatusOwner), editorID)
	require.NoError(t, err)
	assert.Equal(t, []access.Status{access.StatusOwner}, stks.deletedStatus)
}

func TestStakeholderService_RemoveAllStripsEveryRole(t *testing.T) {
	editorID := shared.NewID()
	targetID := shared.NewID()
	p := testProperty(t, shared.NewID(), false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true}
	events := &stubEventRepo{}
	svc := newTestStakeholderService(props, stks, events, map[shared.ID]*user.User{editorID: testUser(t, editorID, false)})

	err := svc.RemoveAll(context.Background(), p.ID().String(), targetID.String(), editorID)
	require.NoError(t, err)
	assert.Equal(t, []shared.ID{targetID}, stks.deletedAllFor)
	require.Len(t, events.recorded, 1)
}

func TestStakeholderService_RemoveAllCreatorDenied(t *testing.T) {
	editorID := shared.NewID()
	creatorID := shared.NewID()
	p := testProperty(t, creatorID, false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true}
	svc := newTestStakeholderService(props, stks, &stubEventRepo{}, map[shared.ID]*user.User{editorID: testUser(t, editorID, false)})

	err := svc.RemoveAll(context.Background(), p.ID().String(), creatorID.String(), editorID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, stks.deletedAllFor)
}

func TestStakeholderService_RemoveAllRequiresEdit(t *testing.T) {
	callerID := shared.NewID()
	p := testProperty(t, shared.NewID(), false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: false}
	svc := newTestStakeholderService(props, stks, &stubEventRepo{}, map[shared.ID]*user.User{callerID: testUser(t, callerID, false)})

	err := svc.RemoveAll(context.Background(), p.ID().String(), shared.NewID().String(), callerID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.Empty(t, stks.deletedAllFor)
}
