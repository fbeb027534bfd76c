// Package app contains the application services that orchestrate domain
// operations over the infrastructure layer.
package app

import (
	"context"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
)

// EventService records and reads the per-property activity timeline.
type EventService struct {
	repo   event.Repository
	logger *logger.Logger
}

// NewEventService creates a new EventService.
func NewEventService(repo event.Repository, log *logger.Logger) *EventService {
	return &EventService{
		repo:   repo,
		logger: log.With("service", "event"),
	}
}

// Record writes a timeline event. Failures are logged, never returned:
// a missing timeline entry must not fail the operation it describes.
func (s *EventService) Record(ctx context.Context, propertyID shared.ID, actorID *shared.ID, action event.Action, entityType string, entityID *shared.ID, metadata map[string]any) {
	e, err := event.New(propertyID, actorID, action, entityType, entityID, metadata)
	if err != nil {
		s.logger.Error("failed to build event", "error", err, "action", action.String())
		return
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to record event", "error", err, "action", action.String(), "property_id", propertyID.String())
	}
}

// ListByProperty returns a page of property events plus the total count.
func (s *EventService) ListByProperty(ctx context.Context, propertyID string, offset, limit int) ([]*event.Event, int64, error) {
	id, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	return s.repo.ListByProperty(ctx, id, offset, limit)
}

// ListRecent returns the newest events across all properties, for the admin
// dashboard.
func (s *EventService) ListRecent(ctx context.Context, limit int) ([]*event.Event, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListRecent(ctx, limit)
}
