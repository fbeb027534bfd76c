package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/invitation"
	"github.com/propertypassport/api/pkg/domain/property"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/stakeholder"
	"github.com/propertypassport/api/pkg/domain/user"
	"github.com/propertypassport/api/pkg/logger"
)

// InvitationEmailJobPayload contains the data for an invitation email job.
type InvitationEmailJobPayload struct {
	RecipientEmail  string        `json:"recipient_email"`
	InviterName     string        `json:"inviter_name"`
	PropertyAddress string        `json:"property_address"`
	Status          string        `json:"status"`
	Token           string        `json:"token"`
	ExpiresIn       time.Duration `json:"expires_in"`
	InvitationID    string        `json:"invitation_id"`
}

// EmailJobEnqueuer defines the interface for enqueueing email jobs.
type EmailJobEnqueuer interface {
	EnqueueInvitationEmail(ctx context.Context, payload InvitationEmailJobPayload) error
}

// InvitationService manages invitations of users onto properties.
type InvitationService struct {
	invitations   invitation.Repository
	stakeholders  stakeholder.Repository
	properties    property.Repository
	users         user.Repository
	access        *AccessService
	events        *EventService
	emailEnqueuer EmailJobEnqueuer
	logger        *logger.Logger
}

// InvitationServiceOption configures an InvitationService.
type InvitationServiceOption func(*InvitationService)

// WithEmailEnqueuer sets the email job enqueuer for InvitationService.
func WithEmailEnqueuer(enqueuer EmailJobEnqueuer) InvitationServiceOption {
	return func(s *InvitationService) {
		s.emailEnqueuer = enqueuer
	}
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	invitations invitation.Repository,
	stakeholders stakeholder.Repository,
	properties property.Repository,
	users user.Repository,
	accessSvc *AccessService,
	events *EventService,
	log *logger.Logger,
	opts ...InvitationServiceOption,
) *InvitationService {
	s := &InvitationService{
		invitations:  invitations,
		stakeholders: stakeholders,
		properties:   properties,
		users:        users,
		access:       accessSvc,
		events:       events,
		logger:       log.With("service", "invitation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvitationInput represents the input for inviting a user.
type CreateInvitationInput struct {
	Email      string `json:"email" validate:"required,email"`
	Status     string `json:"status" validate:"required,stakeholder_status"`
	Permission string `json:"permission" validate:"required,permission_level"`
}

// Create invites an email address onto a property with a role. Requires edit
// permission. The email job is best effort; the invitation stands either way.
func (s *InvitationService) Create(ctx context.Context, propertyID string, input CreateInvitationInput, invitedBy shared.ID) (*invitation.Invitation, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, propID, invitedBy); err != nil {
		return nil, err
	}

	inv, err := invitation.New(propID, input.Email, access.Status(input.Status), access.Permission(input.Permission), invitedBy)
	if err != nil {
		return nil, err
	}

	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.logger.Info("invitation created",
		"property_id", propID.String(),
		"email", inv.Email(),
		"status", input.Status)

	s.events.Record(ctx, propID, &invitedBy, event.ActionInvitationCreated, "invitation", idPtr(inv.ID()), map[string]any{
		"email":  inv.Email(),
		"status": input.Status,
	})

	if s.emailEnqueuer != nil {
		inviterName := "A stakeholder"
		if u, err := s.users.GetByID(ctx, invitedBy); err == nil {
			inviterName = u.FullName()
		}
		address := "a property"
		if p, err := s.properties.GetByID(ctx, propID); err == nil {
			address = p.AddressLine1() + ", " + p.Postcode()
		}

		payload := InvitationEmailJobPayload{
			RecipientEmail:  inv.Email(),
			InviterName:     inviterName,
			PropertyAddress: address,
			Status:          input.Status,
			Token:           inv.Token(),
			ExpiresIn:       time.Until(inv.ExpiresAt()),
			InvitationID:    inv.ID().String(),
		}
		if err := s.emailEnqueuer.EnqueueInvitationEmail(ctx, payload); err != nil {
			// invitation stands; the token can still be shared out of band
			s.logger.Error("failed to enqueue invitation email",
				"email", inv.Email(),
				"invitation_id", inv.ID().String(),
				"error", err)
		}
	}

	return inv, nil
}

// GetByToken retrieves an invitation by its token for preview before
// accepting. Expired pending invitations report their effective state.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", shared.ErrValidation)
	}
	return s.invitations.GetByToken(ctx, token)
}

// Accept accepts an invitation on behalf of the authenticated user. The
// user's email must match the invitation; on success a stakeholder row is
// written with the invited status and permission.
func (s *InvitationService) Accept(ctx context.Context, token string, userID shared.ID) (*invitation.Invitation, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(u.Email(), inv.Email()) {
		return nil, fmt.Errorf("%w: invitation was issued to a different email", shared.ErrForbidden)
	}

	now := time.Now()
	if err := inv.Accept(now); err != nil {
		return nil, err
	}

	if err := s.invitations.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	invitedBy := inv.InvitedBy()
	row, err := stakeholder.New(inv.PropertyID(), userID, inv.Status(), inv.Permission(), &invitedBy)
	if err != nil {
		return nil, err
	}
	if err := s.stakeholders.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}

	s.events.Record(ctx, inv.PropertyID(), &userID, event.ActionInvitationAccepted, "invitation", idPtr(inv.ID()), map[string]any{
		"status":     inv.Status().String(),
		"permission": inv.Permission().String(),
	})

	s.logger.Info("invitation accepted",
		"invitation_id", inv.ID().String(),
		"property_id", inv.PropertyID().String(),
		"user_id", userID.String())

	return inv, nil
}

// Decline declines an invitation on behalf of the authenticated user.
func (s *InvitationService) Decline(ctx context.Context, token string, userID shared.ID) error {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(u.Email(), inv.Email()) {
		return fmt.Errorf("%w: invitation was issued to a different email", shared.ErrForbidden)
	}

	if err := inv.Decline(time.Now()); err != nil {
		return err
	}

	if err := s.invitations.Update(ctx, inv); err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	s.events.Record(ctx, inv.PropertyID(), &userID, event.ActionInvitationDeclined, "invitation", idPtr(inv.ID()), nil)

	return nil
}

// Revoke withdraws a pending invitation. Requires edit permission on the
// property.
func (s *InvitationService) Revoke(ctx context.Context, invitationID string, userID shared.ID) error {
	id, err := shared.IDFromString(invitationID)
	if err != nil {
		return fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	inv, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.access.RequireEdit(ctx, inv.PropertyID(), userID); err != nil {
		return err
	}

	if err := inv.Revoke(time.Now()); err != nil {
		return err
	}

	if err := s.invitations.Update(ctx, inv); err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	s.events.Record(ctx, inv.PropertyID(), &userID, event.ActionInvitationRevoked, "invitation", idPtr(id), nil)

	return nil
}

// ListByProperty returns a property's invitations. Requires edit permission;
// invitations carry email addresses that viewers have no business seeing.
func (s *InvitationService) ListByProperty(ctx context.Context, propertyID string, userID shared.ID) ([]*invitation.Invitation, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, propID, userID); err != nil {
		return nil, err
	}

	return s.invitations.ListByProperty(ctx, propID)
}

// ListMine returns invitations addressed to the authenticated user's email.
func (s *InvitationService) ListMine(ctx context.Context, userID shared.ID) ([]*invitation.Invitation, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.invitations.ListByEmail(ctx, u.Email())
}

// ExpireStale marks pending invitations past their expiry as expired and
// returns the number swept.
func (s *InvitationService) ExpireStale(ctx context.Context) (int64, error) {
	return s.invitations.MarkExpiredBefore(ctx, time.Now())
}
