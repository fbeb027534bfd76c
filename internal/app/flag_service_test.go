package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/flag"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
)

type stubEventRepo struct {
	event.Repository

	recorded []*event.Event
}

func (s *stubEventRepo) Create(ctx context.Context, e *event.Event) error {
	s.recorded = append(s.recorded, e)
	return nil
}

type stubFlagRepo struct {
	flag.Repository

	flags   map[shared.ID]*flag.Flag
	updated *flag.Flag
}

func (s *stubFlagRepo) Create(ctx context.Context, f *flag.Flag) error {
	if s.flags == nil {
		s.flags = make(map[shared.ID]*flag.Flag)
	}
	s.flags[f.ID()] = f
	return nil
}

func (s *stubFlagRepo) GetByID(ctx context.Context, id shared.ID) (*flag.Flag, error) {
	f, ok := s.flags[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return f, nil
}

func (s *stubFlagRepo) Update(ctx context.Context, f *flag.Flag) error {
	s.updated = f
	return nil
}

func newTestFlagService(flags *stubFlagRepo, events *stubEventRepo, canView, canEdit bool, users map[shared.ID]*user.User) *FlagService {
	access := newTestAccessService(&stubStakeholderRepo{canView: canView, canEdit: canEdit}, &stubUserRepo{users: users})
	return NewFlagService(flags, access, NewEventService(events, logger.NewDefault()), logger.NewDefault())
}

func TestFlagService_RaiseRequiresView(t *testing.T) {
	userID := shared.NewID()
	propertyID := shared.NewID()
	users := map[shared.ID]*user.User{userID: testUser(t, userID, false)}
	input := RaiseFlagInput{Title: "Damp in cellar", Severity: "warning"}

	t.Run("denied without view", func(t *testing.T) {
		svc := newTestFlagService(&stubFlagRepo{}, &stubEventRepo{}, false, false, users)
		_, err := svc.Raise(context.Background(), propertyID.String(), input, userID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("viewer can raise", func(t *testing.T) {
		events := &stubEventRepo{}
		svc := newTestFlagService(&stubFlagRepo{}, events, true, false, users)
		f, err := svc.Raise(context.Background(), propertyID.String(), input, userID)
		require.NoError(t, err)
		assert.Equal(t, "Damp in cellar", f.Title())
		assert.False(t, f.IsResolved())
		require.Len(t, events.recorded, 1)
		assert.Equal(t, event.ActionIssueRaised, events.recorded[0].Action())
	})
}

func TestFlagService_ResolveRequiresEdit(t *testing.T) {
	userID := shared.NewID()
	propertyID := shared.NewID()
	users := map[shared.ID]*user.User{userID: testUser(t, userID, false)}

	f, err := flag.New(propertyID, "Boundary dispute", "", flag.SeverityCritical, userID)
	require.NoError(t, err)

	repo := &stubFlagRepo{flags: map[shared.ID]*flag.Flag{f.ID(): f}}
	svc := newTestFlagService(repo, &stubEventRepo{}, true, false, users)

	_, err = svc.Resolve(context.Background(), f.ID().String(), userID)
	assert.ErrorIs(t, err, shared.ErrForbidden, "viewers cannot resolve issues")
}

func TestFlagService_ResolveTwiceConflicts(t *testing.T) {
	userID := shared.NewID()
	propertyID := shared.NewID()
	users := map[shared.ID]*user.User{userID: testUser(t, userID, false)}

	f, err := flag.New(propertyID, "Missing FENSA certificate", "", flag.SeverityInfo, userID)
	require.NoError(t, err)

	repo := &stubFlagRepo{flags: map[shared.ID]*flag.Flag{f.ID(): f}}
	svc := newTestFlagService(repo, &stubEventRepo{}, true, true, users)

	resolved, err := svc.Resolve(context.Background(), f.ID().String(), userID)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved())
	require.NotNil(t, repo.updated)

	_, err = svc.Resolve(context.Background(), f.ID().String(), userID)
	assert.ErrorIs(t, err, shared.ErrConflict)
}
