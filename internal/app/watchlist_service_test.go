package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/domain/watchlist"
	"github.com/propertypassport/api/pkg/logger"
)

type stubWatchlistRepo struct {
	watchlist.Repository

	entries   map[shared.ID]*watchlist.Entry
	createErr error
}

func (s *stubWatchlistRepo) Create(ctx context.Context, e *watchlist.Entry) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.entries == nil {
		s.entries = make(map[shared.ID]*watchlist.Entry)
	}
	s.entries[e.PropertyID()] = e
	return nil
}

func (s *stubWatchlistRepo) ListByUser(ctx context.Context, userID shared.ID) ([]*watchlist.Entry, error) {
	out := make([]*watchlist.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}

type stubPropertyGetter struct {
	property.Repository

	properties map[shared.ID]*property.Property
}

func (s *stubPropertyGetter) GetByID(ctx context.Context, id shared.ID) (*property.Property, error) {
	p, ok := s.properties[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func testProperty(t *testing.T, createdBy shared.ID, public bool) *property.Property {
	t.Helper()
	p, err := property.New("5 Test Lane", "", "York", "YO1 7HT", property.TypeTerraced, 2, 1, 21_000_000, "D", createdBy)
	require.NoError(t, err)
	p.SetPublicVisibility(public)
	return p
}

func newTestWatchlistService(repo *stubWatchlistRepo, props *stubPropertyGetter, canView bool, users map[shared.ID]*user.User) *WatchlistService {
	access := newTestAccessService(&stubStakeholderRepo{canView: canView}, &stubUserRepo{users: users})
	return NewWatchlistService(repo, props, access, logger.NewDefault())
}

func TestWatchlistService_AddPublicProperty(t *testing.T) {
	userID := shared.NewID()
	ownerID := shared.NewID()
	p := testProperty(t, ownerID, true)

	repo := &stubWatchlistRepo{}
	props := &stubPropertyGetter{properties: map[shared.ID]*property.Property{p.ID(): p}}
	svc := newTestWatchlistService(repo, props, false, map[shared.ID]*user.User{userID: testUser(t, userID, false)})

	entry, err := svc.Add(context.Background(), p.ID().String(), userID)
	require.NoError(t, err, "public properties are watchable without a stakeholder role")
	assert.Equal(t, p.ID(), entry.PropertyID())
	assert.Equal(t, userID, entry.UserID())
}

func TestWatchlistService_AddPrivateRequiresView(t *testing.T) {
	userID := shared.NewID()
	ownerID := shared.NewID()
	p := testProperty(t, ownerID, false)

	props := &stubPropertyGetter{properties: map[shared.ID]*property.Property{p.ID(): p}}
	users := map[shared.ID]*user.User{userID: testUser(t, userID, false)}

	t.Run("denied without view", func(t *testing.T) {
		svc := newTestWatchlistService(&stubWatchlistRepo{}, props, false, users)
		_, err := svc.Add(context.Background(), p.ID().String(), userID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("allowed with view", func(t *testing.T) {
		svc := newTestWatchlistService(&stubWatchlistRepo{}, props, true, users)
		_, err := svc.Add(context.Background(), p.ID().String(), userID)
		assert.NoError(t, err)
	})
}

func TestWatchlistService_AddTwiceConflicts(t *testing.T) {
	userID := shared.NewID()
	p := testProperty(t, shared.NewID(), true)

	repo := &stubWatchlistRepo{createErr: shared.ErrAlreadyExists}
	props := &stubPropertyGetter{properties: map[shared.ID]*property.Property{p.ID(): p}}
	svc := newTestWatchlistService(repo, props, false, map[shared.ID]*user.User{userID: testUser(t, userID, false)})

	_, err := svc.Add(context.Background(), p.ID().String(), userID)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestWatchlistService_ListSkipsDeletedProperties(t *testing.T) {
	userID := shared.NewID()
	kept := testProperty(t, shared.NewID(), true)
	deleted := testProperty(t, shared.NewID(), true)

	repo := &stubWatchlistRepo{}
	props := &stubPropertyGetter{properties: map[shared.ID]*property.Property{kept.ID(): kept}}
	svc := newTestWatchlistService(repo, props, false, map[shared.ID]*user.User{userID: testUser(t, userID, false)})

	for _, p := range []*property.Property{kept, deleted} {
		e, err := watchlist.New(userID, p.ID())
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), e))
	}
	delete(props.properties, deleted.ID())

	items, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID(), items[0].Property.ID())
}
