package app

import (
	"context"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/watchlist"
	"github.com/propertypassport/api/pkg/logger"
)

// WatchlistService manages the properties a user follows.
type WatchlistService struct {
	watchlist  watchlist.Repository
	properties property.Repository
	access     *AccessService
	logger     *logger.Logger
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(
	watchlistRepo watchlist.Repository,
	properties property.Repository,
	accessSvc *AccessService,
	log *logger.Logger,
) *WatchlistService {
	return &WatchlistService{
		watchlist:  watchlistRepo,
		properties: properties,
		access:     accessSvc,
		logger:     log.With("service", "watchlist"),
	}
}

// Add puts a property on the user's watchlist. The property must be public
// or viewable by the user; adding twice is a conflict.
func (s *WatchlistService) Add(ctx context.Context, propertyID string, userID shared.ID) (*watchlist.Entry, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	p, err := s.properties.GetByID(ctx, propID)
	if err != nil {
		return nil, err
	}
	if !p.PublicVisibility() {
		if err := s.access.RequireView(ctx, propID, userID); err != nil {
			return nil, err
		}
	}

	entry, err := watchlist.New(userID, propID)
	if err != nil {
		return nil, err
	}

	if err := s.watchlist.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("watchlist entry added", "user_id", userID.String(), "property_id", propID.String())
	return entry, nil
}

// Remove takes a property off the user's watchlist.
func (s *WatchlistService) Remove(ctx context.Context, propertyID string, userID shared.ID) error {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	return s.watchlist.Delete(ctx, userID, propID)
}

// WatchlistItem pairs an entry with its property.
type WatchlistItem struct {
	Entry    *watchlist.Entry   `json:"entry"`
	Property *property.Property `json:"property"`
}

// List returns the user's watchlist with the current property details.
// Entries whose property has since been deleted are skipped.
func (s *WatchlistService) List(ctx context.Context, userID shared.ID) ([]WatchlistItem, error) {
	entries, err := s.watchlist.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]WatchlistItem, 0, len(entries))
	for _, e := range entries {
		p, err := s.properties.GetByID(ctx, e.PropertyID())
		if err != nil {
			if shared.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		items = append(items, WatchlistItem{Entry: e, Property: p})
	}
	return items, nil
}

// IsWatching reports whether the user follows the property.
func (s *WatchlistService) IsWatching(ctx context.Context, propertyID string, userID shared.ID) (bool, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return false, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}
	return s.watchlist.Exists(ctx, userID, propID)
}
