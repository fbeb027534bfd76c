package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
)

type stubPropertyRepo struct {
	property.Repository

	rows []property.SearchRow
	err  error
}

func (s *stubPropertyRepo) Search(ctx context.Context, query string, offset, limit int) ([]property.SearchRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func searchRow(t *testing.T, createdBy shared.ID, public bool, bedrooms int) property.SearchRow {
	t.Helper()
	p, err := property.New("1 Test Street", "", "Leeds", "LS1 1AA", property.TypeTerraced, bedrooms, 1, 25_000_000, "C", createdBy)
	require.NoError(t, err)
	p.SetPublicVisibility(public)
	return property.SearchRow{Property: p}
}

func TestSearchService_FailsSoft(t *testing.T) {
	svc := NewSearchService(&stubPropertyRepo{err: errors.New("db down")}, logger.NewDefault())

	results := svc.Search(context.Background(), SearchInput{
		Role:   access.RoleOwner,
		UserID: shared.NewID(),
	})

	require.NotNil(t, results, "fail-soft returns an empty slice, not nil")
	assert.Empty(t, results)
}

func TestSearchService_AppliesFilters(t *testing.T) {
	userID := shared.NewID()
	rows := []property.SearchRow{
		searchRow(t, userID, false, 2),
		searchRow(t, userID, false, 4),
	}
	svc := NewSearchService(&stubPropertyRepo{rows: rows}, logger.NewDefault())

	min := 3
	results := svc.Search(context.Background(), SearchInput{
		Filters: property.FilterSet{MinBedrooms: &min},
		Role:    access.RoleOwner,
		UserID:  userID,
	})

	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].Property.Bedrooms())
}

func TestSearchService_BuyerVisibility(t *testing.T) {
	buyerID := shared.NewID()
	otherID := shared.NewID()
	rows := []property.SearchRow{
		searchRow(t, buyerID, false, 2), // own, private: visible
		searchRow(t, otherID, true, 2),  // public: visible
		searchRow(t, otherID, false, 2), // someone else's private: hidden
	}
	svc := NewSearchService(&stubPropertyRepo{rows: rows}, logger.NewDefault())

	results := svc.Search(context.Background(), SearchInput{
		Role:   access.RoleBuyer,
		UserID: buyerID,
	})

	assert.Len(t, results, 2)
}

func TestSearchService_DefaultsPagination(t *testing.T) {
	svc := NewSearchService(&stubPropertyRepo{}, logger.NewDefault())

	results := svc.Search(context.Background(), SearchInput{
		Role:   access.RoleAdmin,
		UserID: shared.NewID(),
		Offset: -5,
		Limit:  10_000,
	})

	assert.Empty(t, results)
}
