package app

import (
	"context"
	"time"

	"github.com/propertypassport/api/internal/metrics"
	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
)

// SearchService runs property search: a database text search (or recency
// scan) followed by in-memory filtering and role-based visibility. Search is
// a convenience surface, so it fails soft: any backend error returns an
// empty result set instead of an error page.
type SearchService struct {
	properties property.Repository
	logger     *logger.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(properties property.Repository, log *logger.Logger) *SearchService {
	return &SearchService{
		properties: properties,
		logger:     log.With("service", "search"),
	}
}

// SearchInput carries the query, filters and requesting identity.
type SearchInput struct {
	Filters property.FilterSet
	Role    access.DashboardRole
	UserID  shared.ID
	Offset  int
	Limit   int
}

// Search returns matching properties in database order. Buyers only see
// public properties and their own; every other role sees the full set.
func (s *SearchService) Search(ctx context.Context, input SearchInput) []property.SearchRow {
	start := time.Now()

	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 20
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	rows, err := s.properties.Search(ctx, input.Filters.Query, input.Offset, input.Limit)
	if err != nil {
		s.logger.Error("search failed, returning empty results", "error", err, "query", input.Filters.Query)
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return []property.SearchRow{}
	}

	filtered := property.ApplyFilters(rows, input.Filters, input.Role, input.UserID)

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	return filtered
}
