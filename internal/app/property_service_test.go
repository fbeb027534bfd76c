package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
)

type stubPropertyStore struct {
	property.Repository

	properties map[shared.ID]*property.Property
	deleted    []shared.ID
}

func (s *stubPropertyStore) GetByID(ctx context.Context, id shared.ID) (*property.Property, error) {
	p, ok := s.properties[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (s *stubPropertyStore) Delete(ctx context.Context, id shared.ID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

// stubRoleRepo serves stakeholder lookups that go beyond the plain
// CanEdit/CanView predicates.
type stubRoleRepo struct {
	stakeholder.Repository

	canEdit bool
	canView bool
	roles   map[access.Status]bool
	roleErr error

	deletedStatus []access.Status
	deletedAllFor []shared.ID
	deleteErr     error
}

func (s *stubRoleRepo) CanEdit(ctx context.Context, propertyID, userID shared.ID) (bool, error) {
	return s.canEdit, nil
}

func (s *stubRoleRepo) CanView(ctx context.Context, propertyID, userID shared.ID) (bool, error) {
	return s.canView, nil
}

func (s *stubRoleRepo) HasRole(ctx context.Context, propertyID, userID shared.ID, status access.Status) (bool, error) {
	if s.roleErr != nil {
		return false, s.roleErr
	}
	return s.roles[status], nil
}

func (s *stubRoleRepo) Delete(ctx context.Context, propertyID, userID shared.ID, status access.Status) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedStatus = append(s.deletedStatus, status)
	return nil
}

func (s *stubRoleRepo) DeleteAllForUser(ctx context.Context, propertyID, userID shared.ID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedAllFor = append(s.deletedAllFor, userID)
	return nil
}

func newTestPropertyService(props *stubPropertyStore, stks *stubRoleRepo, users map[shared.ID]*user.User) *PropertyService {
	accessSvc := NewAccessService(stks, &stubUserRepo{users: users}, logger.NewDefault())
	events := NewEventService(&stubEventRepo{}, logger.NewDefault())
	return NewPropertyService(props, stks, accessSvc, events, logger.NewDefault())
}

func TestPropertyService_DeleteDeniedForInvitedEditor(t *testing.T) {
	editorID := shared.NewID()
	creatorID := shared.NewID()
	p := testProperty(t, creatorID, false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true, roles: map[access.Status]bool{}}
	svc := newTestPropertyService(props, stks, map[shared.ID]*user.User{editorID: testUser(t, editorID, false)})

	err := svc.Delete(context.Background(), p.ID().String(), editorID)
	assert.ErrorIs(t, err, shared.ErrForbidden, "edit permission alone must not allow deletion")
	assert.Empty(t, props.deleted)
}

func TestPropertyService_DeleteAllowedForCreator(t *testing.T) {
	creatorID := shared.NewID()
	p := testProperty(t, creatorID, false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true, roles: map[access.Status]bool{}}
	svc := newTestPropertyService(props, stks, map[shared.ID]*user.User{creatorID: testUser(t, creatorID, false)})

	err := svc.Delete(context.Background(), p.ID().String(), creatorID)
	require.NoError(t, err)
	assert.Equal(t, []shared.ID{p.ID()}, props.deleted)
}

func TestPropertyService_DeleteAllowedForOwnerStakeholder(t *testing.T) {
	ownerID := shared.NewID()
	creatorID := shared.NewID()
	p := testProperty(t, creatorID, false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true, roles: map[access.Status]bool{access.StatusOwner: true}}
	svc := newTestPropertyService(props, stks, map[shared.ID]*user.User{ownerID: testUser(t, ownerID, false)})

	err := svc.Delete(context.Background(), p.ID().String(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, []shared.ID{p.ID()}, props.deleted)
}

func TestPropertyService_DeleteAllowedForAdmin(t *testing.T) {
	adminID := shared.NewID()
	creatorID := shared.NewID()
	p := testProperty(t, creatorID, false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true, roles: map[access.Status]bool{}}
	svc := newTestPropertyService(props, stks, map[shared.ID]*user.User{adminID: testUser(t, adminID, true)})

	err := svc.Delete(context.Background(), p.ID().String(), adminID)
	require.NoError(t, err)
	assert.Equal(t, []shared.ID{p.ID()}, props.deleted)
}

func TestPropertyService_DeleteDeniedWhenRoleLookupFails(t *testing.T) {
	editorID := shared.NewID()
	p := testProperty(t, shared.NewID(), false)

	props := &stubPropertyStore{properties: map[shared.ID]*property.Property{p.ID(): p}}
	stks := &stubRoleRepo{canEdit: true, roleErr: assert.AnError}
	svc := newTestPropertyService(props, stks, map[shared.ID]*user.User{editorID: testUser(t, editorID, false)})

	err := svc.Delete(context.Background(), p.ID().String(), editorID)
	assert.ErrorIs(t, err, shared.ErrForbidden, "role lookup failures deny, never allow")
	assert.Empty(t, props.deleted)
}
