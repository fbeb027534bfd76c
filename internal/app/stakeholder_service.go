package app

import (
	"context"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
	"github.com/propertypassport/api/pkg/logger"
)

// StakeholderService manages the roles users hold on properties.
type StakeholderService struct {
	stakeholders stakeholder.Repository
	properties   property.Repository
	access       *AccessService
	events       *EventService
	logger       *logger.Logger
}

// NewStakeholderService creates a new StakeholderService.
func NewStakeholderService(
	stakeholders stakeholder.Repository,
	properties property.Repository,
	accessSvc *AccessService,
	events *EventService,
	log *logger.Logger,
) *StakeholderService {
	return &StakeholderService{
		stakeholders: stakeholders,
		properties:   properties,
		access:       accessSvc,
		events:       events,
		logger:       log.With("service", "stakeholder"),
	}
}

// GrantRoleInput represents the input for granting a property role.
type GrantRoleInput struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	Status     string `json:"status" validate:"required,stakeholder_status"`
	Permission string `json:"permission" validate:"required,permission_level"`
}

// Grant gives a user a role on a property. Existing rows are widened, never
// downgraded. Requires edit permission on the property.
func (s *StakeholderService) Grant(ctx context.Context, propertyID string, input GrantRoleInput, grantedBy shared.ID) (*stakeholder.Stakeholder, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}
	userID, err := shared.IDFromString(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, propID, grantedBy); err != nil {
		return nil, err
	}

	row, err := stakeholder.New(propID, userID, access.Status(input.Status), access.Permission(input.Permission), &grantedBy)
	if err != nil {
		return nil, err
	}

	if err := s.stakeholders.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}

	s.events.Record(ctx, propID, &grantedBy, event.ActionRoleGranted, "stakeholder", idPtr(userID), map[string]any{
		"status":     input.Status,
		"permission": input.Permission,
	})

	s.logger.Info("role granted",
		"property_id", propID.String(),
		"user_id", userID.String(),
		"status", input.Status,
		"permission", input.Permission)

	return row, nil
}

// Revoke removes one role a user holds on a property. The property creator
// cannot have their owner role revoked.
func (s *StakeholderService) Revoke(ctx context.Context, propertyID, targetUserID, status string, revokedBy shared.ID) error {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}
	userID, err := shared.IDFromString(targetUserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}
	st := access.Status(status)
	if !st.IsValid() {
		return fmt.Errorf("%w: invalid status '%s'", shared.ErrValidation, status)
	}

	if err := s.access.RequireEdit(ctx, propID, revokedBy); err != nil {
		return err
	}

	if st == access.StatusOwner {
		if err := s.rejectCreatorRevocation(ctx, propID, userID); err != nil {
			return err
		}
	}

	if err := s.stakeholders.Delete(ctx, propID, userID, st); err != nil {
		return err
	}

	s.events.Record(ctx, propID, &revokedBy, event.ActionRoleRevoked, "stakeholder", idPtr(userID), map[string]any{
		"status": status,
	})

	s.logger.Info("role revoked",
		"property_id", propID.String(),
		"user_id", userID.String(),
		"status", status)

	return nil
}

// RemoveAll strips every role a user holds on a property in one operation.
// The property creator cannot be removed at all.
func (s *StakeholderService) RemoveAll(ctx context.Context, propertyID, targetUserID string, revokedBy shared.ID) error {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}
	userID, err := shared.IDFromString(targetUserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, propID, revokedBy); err != nil {
		return err
	}

	if err := s.rejectCreatorRevocation(ctx, propID, userID); err != nil {
		return err
	}

	if err := s.stakeholders.DeleteAllForUser(ctx, propID, userID); err != nil {
		return err
	}

	s.events.Record(ctx, propID, &revokedBy, event.ActionRoleRevoked, "stakeholder", idPtr(userID), map[string]any{
		"all_roles": true,
	})

	s.logger.Info("stakeholder removed",
		"property_id", propID.String(),
		"user_id", userID.String())

	return nil
}

// rejectCreatorRevocation blocks stripping ownership from the property
// creator; their derived ownership would survive anyway and a half-revoked
// creator is a confusing state.
func (s *StakeholderService) rejectCreatorRevocation(ctx context.Context, propID, userID shared.ID) error {
	p, err := s.properties.GetByID(ctx, propID)
	if err != nil {
		return err
	}
	if p.CreatedBy() == userID {
		return fmt.Errorf("%w: the property creator's ownership cannot be revoked", shared.ErrForbidden)
	}
	return nil
}

// ListByProperty returns all stakeholder rows for a property.
// Requires view permission.
func (s *StakeholderService) ListByProperty(ctx context.Context, propertyID string, userID shared.ID) ([]*stakeholder.Stakeholder, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireView(ctx, propID, userID); err != nil {
		return nil, err
	}

	return s.stakeholders.ListByProperty(ctx, propID)
}
