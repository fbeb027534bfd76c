package app

import (
	"context"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/flag"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/logger"
)

// FlagService manages issues raised against properties.
type FlagService struct {
	flags  flag.Repository
	access *AccessService
	events *EventService
	logger *logger.Logger
}

// NewFlagService creates a new FlagService.
func NewFlagService(flags flag.Repository, accessSvc *AccessService, events *EventService, log *logger.Logger) *FlagService {
	return &FlagService{
		flags:  flags,
		access: accessSvc,
		events: events,
		logger: log.With("service", "flag"),
	}
}

// RaiseFlagInput represents the input for raising an issue.
type RaiseFlagInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Severity    string `json:"severity" validate:"required,severity"`
}

// Raise records an issue against a property. Any stakeholder who can view
// the property may raise one.
func (s *FlagService) Raise(ctx context.Context, propertyID string, input RaiseFlagInput, userID shared.ID) (*flag.Flag, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireView(ctx, propID, userID); err != nil {
		return nil, err
	}

	f, err := flag.New(propID, input.Title, input.Description, flag.Severity(input.Severity), userID)
	if err != nil {
		return nil, err
	}

	if err := s.flags.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create flag: %w", err)
	}

	s.events.Record(ctx, propID, &userID, event.ActionIssueRaised, "flag", idPtr(f.ID()), map[string]any{
		"title":    input.Title,
		"severity": input.Severity,
	})

	s.logger.Info("issue raised",
		"property_id", propID.String(),
		"flag_id", f.ID().String(),
		"severity", input.Severity)

	return f, nil
}

// Resolve marks an issue as resolved. Resolving an already-resolved issue
// fails with a conflict. Requires edit permission on the owning property.
func (s *FlagService) Resolve(ctx context.Context, flagID string, userID shared.ID) (*flag.Flag, error) {
	id, err := shared.IDFromString(flagID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	f, err := s.flags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireEdit(ctx, f.PropertyID(), userID); err != nil {
		return nil, err
	}

	if err := f.Resolve(); err != nil {
		return nil, err
	}

	if err := s.flags.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to update flag: %w", err)
	}

	s.events.Record(ctx, f.PropertyID(), &userID, event.ActionIssueResolved, "flag", idPtr(id), nil)

	return f, nil
}

// Delete removes an issue. Requires edit permission on the owning property.
func (s *FlagService) Delete(ctx context.Context, flagID string, userID shared.ID) error {
	id, err := shared.IDFromString(flagID)
	if err != nil {
		return fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	f, err := s.flags.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.access.RequireEdit(ctx, f.PropertyID(), userID); err != nil {
		return err
	}

	if err := s.flags.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Record(ctx, f.PropertyID(), &userID, event.ActionIssueDeleted, "flag", idPtr(id), nil)

	return nil
}

// List returns a property's issues, open ones first.
// Requires view permission.
func (s *FlagService) List(ctx context.Context, propertyID string, userID shared.ID, includeResolved bool) ([]*flag.Flag, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireView(ctx, propID, userID); err != nil {
		return nil, err
	}

	return s.flags.ListByProperty(ctx, propID, includeResolved)
}
