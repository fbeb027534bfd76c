package app

import (
	"context"
	"errors"
	"time"

	"github.com/propertypassport/api/internal/infra/redis"
	"github.com/propertypassport/api/pkg/domain/document"
	"github.com/propertypassport/api/pkg/domain/flag"
	"github.com/propertypassport/api/pkg/domain/media"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
)

// statsCacheTTL bounds how stale the admin stats panel may get.
const statsCacheTTL = 5 * time.Minute

// AdminStats is the aggregate snapshot shown on the admin panel.
type AdminStats struct {
	Users      int64     `json:"users"`
	Properties int64     `json:"properties"`
	Documents  int64     `json:"documents"`
	Media      int64     `json:"media"`
	OpenIssues int64     `json:"open_issues"`
	ComputedAt time.Time `json:"computed_at"`
}

// DashboardService computes cached aggregate counts for the admin panel.
type DashboardService struct {
	users      user.Repository
	properties property.Repository
	documents  document.Repository
	media      media.Repository
	flags      flag.Repository
	cache      *redis.Cache[AdminStats]
	logger     *logger.Logger
}

// NewDashboardService creates a new DashboardService. The cache is optional;
// without it every call recomputes.
func NewDashboardService(
	users user.Repository,
	properties property.Repository,
	documents document.Repository,
	mediaRepo media.Repository,
	flags flag.Repository,
	cache *redis.Cache[AdminStats],
	log *logger.Logger,
) *DashboardService {
	return &DashboardService{
		users:      users,
		properties: properties,
		documents:  documents,
		media:      mediaRepo,
		flags:      flags,
		cache:      cache,
		logger:     log.With("service", "dashboard"),
	}
}

// Stats returns the aggregate counts, served from cache when fresh.
func (s *DashboardService) Stats(ctx context.Context) (*AdminStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, "admin"); err == nil {
			return cached, nil
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("stats cache read failed", "error", err)
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, "admin", *stats, statsCacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", "error", err)
		}
	}

	return stats, nil
}

// Invalidate drops the cached stats so the next read recomputes. Called
// after bulk data changes such as test resets and seeding.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, "admin")
}

func (s *DashboardService) compute(ctx context.Context) (*AdminStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	properties, err := s.properties.Count(ctx)
	if err != nil {
		return nil, err
	}
	documents, err := s.documents.Count(ctx)
	if err != nil {
		return nil, err
	}
	mediaCount, err := s.media.Count(ctx)
	if err != nil {
		return nil, err
	}
	openIssues, err := s.flags.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		Users:      users,
		Properties: properties,
		Documents:  documents,
		Media:      mediaCount,
		OpenIssues: openIssues,
		ComputedAt: time.Now().UTC(),
	}, nil
}
