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

// slugRetries bounds how often a colliding random suffix is regenerated.
const slugRetries = 5

// PropertyService handles property CRUD and visibility.
type PropertyService struct {
	properties   property.Repository
	stakeholders stakeholder.Repository
	access       *AccessService
	events       *EventService
	logger       *logger.Logger
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(
	properties property.Repository,
	stakeholders stakeholder.Repository,
	accessSvc *AccessService,
	events *EventService,
	log *logger.Logger,
) *PropertyService {
	return &PropertyService{
		properties:   properties,
		stakeholders: stakeholders,
		access:       accessSvc,
		events:       events,
		logger:       log.With("service", "property"),
	}
}

// CreatePropertyInput represents the input for creating a property.
type CreatePropertyInput struct {
	AddressLine1 string `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string `json:"address_line2" validate:"max=200"`
	City         string `json:"city" validate:"required,max=100"`
	Postcode     string `json:"postcode" validate:"required,max=16"`
	PropertyType string `json:"property_type" validate:"required,property_type"`
	Bedrooms     int    `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms    int    `json:"bathrooms" validate:"gte=0,lte=50"`
	Price        int64  `json:"price" validate:"gte=0"`
	EPCRating    string `json:"epc_rating" validate:"omitempty,epc_rating"`
}

// Create creates a property and makes the creator its owner with editor
// permission. The owner row is written in the same transaction-free flow the
// session backfill covers: even if the row insert fails, the creator still
// derives owner+editor from created_by.
func (s *PropertyService) Create(ctx context.Context, input CreatePropertyInput, creatorID shared.ID) (*property.Property, error) {
	s.logger.Info("creating property", "postcode", input.Postcode, "creator", creatorID.String())

	p, err := property.New(
		input.AddressLine1,
		input.AddressLine2,
		input.City,
		input.Postcode,
		property.Type(input.PropertyType),
		input.Bedrooms,
		input.Bathrooms,
		input.Price,
		input.EPCRating,
		creatorID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueSlug(ctx, p); err != nil {
		return nil, err
	}

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	owner, err := stakeholder.NewOwner(p.ID(), creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to build owner role: %w", err)
	}
	if err := s.stakeholders.Upsert(ctx, owner); err != nil {
		// creator still holds owner+editor via the created_by backfill
		s.logger.Error("failed to persist owner role", "error", err, "property_id", p.ID().String())
	}

	s.events.Record(ctx, p.ID(), &creatorID, event.ActionPropertyCreated, "property", idPtr(p.ID()), map[string]any{
		"slug":     p.Slug(),
		"postcode": p.Postcode(),
	})

	s.logger.Info("property created", "id", p.ID().String(), "slug", p.Slug())
	return p, nil
}

// Get retrieves a property, enforcing view access for non-public properties.
func (s *PropertyService) Get(ctx context.Context, propertyID string, userID shared.ID) (*property.Property, error) {
	id, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.PublicVisibility() {
		if err := s.access.RequireView(ctx, id, userID); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// GetBySlug retrieves a property by slug with the same visibility rules as Get.
func (s *PropertyService) GetBySlug(ctx context.Context, slug string, userID shared.ID) (*property.Property, error) {
	p, err := s.properties.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !p.PublicVisibility() {
		if err := s.access.RequireView(ctx, p.ID(), userID); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// UpdatePropertyInput represents the input for updating a property.
type UpdatePropertyInput struct {
	PropertyType string `json:"property_type" validate:"required,property_type"`
	Bedrooms     int    `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms    int    `json:"bathrooms" validate:"gte=0,lte=50"`
	Price        int64  `json:"price" validate:"gte=0"`
	EPCRating    string `json:"epc_rating" validate:"omitempty,epc_rating"`
}

// Update modifies a property's details. Requires edit permission.
func (s *PropertyService) Update(ctx context.Context, propertyID string, input UpdatePropertyInput, userID shared.ID) (*property.Property, error) {
	id, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, id, userID); err != nil {
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateDetails(property.Type(input.PropertyType), input.Bedrooms, input.Bathrooms, input.Price, input.EPCRating); err != nil {
		return nil, err
	}

	if err := s.properties.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	s.events.Record(ctx, id, &userID, event.ActionPropertyUpdated, "property", idPtr(id), nil)

	return p, nil
}

// SetVisibility toggles whether a property appears in public search.
// Requires edit permission.
func (s *PropertyService) SetVisibility(ctx context.Context, propertyID string, visible bool, userID shared.ID) (*property.Property, error) {
	id, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, id, userID); err != nil {
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.SetPublicVisibility(visible)
	if err := s.properties.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	s.events.Record(ctx, id, &userID, event.ActionVisibilityChanged, "property", idPtr(id), map[string]any{
		"public": visible,
	})

	return p, nil
}

// RegenerateSlug issues a fresh slug for a property, retrying on collisions.
// Requires edit permission. The old slug stops resolving immediately.
func (s *PropertyService) RegenerateSlug(ctx context.Context, propertyID string, userID shared.ID) (*property.Property, error) {
	id, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, id, userID); err != nil {
		return nil, err
	}

	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldSlug := p.Slug()
	if err := s.ensureUniqueSlug(ctx, p); err != nil {
		return nil, err
	}

	if err := s.properties.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	s.events.Record(ctx, id, &userID, event.ActionSlugRegenerated, "property", idPtr(id), map[string]any{
		"old_slug": oldSlug,
		"new_slug": p.Slug(),
	})

	return p, nil
}

// Delete removes a property and, via cascading foreign keys, its attachments.
// Edit permission alone is not enough: an invited editor cannot destroy the
// listing, only an admin, the creator, or a stakeholder holding owner status
// can.
func (s *PropertyService) Delete(ctx context.Context, propertyID string, userID shared.ID) error {
	id, err := shared.IDFromString(propertyID)
	if err != nil {
		return fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, id, userID); err != nil {
		return err
	}

	if !s.access.IsAdmin(ctx, userID) {
		p, err := s.properties.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.CreatedBy() != userID {
			isOwner, err := s.stakeholders.HasRole(ctx, id, userID, access.StatusOwner)
			if err != nil || !isOwner {
				return fmt.Errorf("%w: only an owner or admin can delete a property", shared.ErrForbidden)
			}
		}
	}

	if err := s.properties.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("property deleted", "id", id.String(), "by", userID.String())
	return nil
}

// ListMine returns the properties the user created.
// PropertyAccess reports what the user may do with a property.
type PropertyAccess struct {
	CanView bool `json:"can_view"`
	CanEdit bool `json:"can_edit"`
}

// CheckAccess returns the caller's effective access to a property. Check
// failures surface as false, never as an error.
func (s *PropertyService) CheckAccess(ctx context.Context, propertyID string, userID shared.ID) (*PropertyAccess, error) {
	id, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	return &PropertyAccess{
		CanView: s.access.CanView(ctx, id, userID),
		CanEdit: s.access.CanEdit(ctx, id, userID),
	}, nil
}

func (s *PropertyService) ListMine(ctx context.Context, userID shared.ID, offset, limit int) ([]*property.Property, int64, error) {
	return s.properties.ListByCreator(ctx, userID, offset, limit)
}

func (s *PropertyService) ensureUniqueSlug(ctx context.Context, p *property.Property) error {
	for attempt := 0; attempt < slugRetries; attempt++ {
		slug := property.GenerateSlug(p.AddressLine1(), p.City(), p.Postcode())
		taken, err := s.properties.SlugExists(ctx, slug)
		if err != nil {
			return fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return p.SetSlug(slug)
		}
	}
	return fmt.Errorf("%w: could not allocate a unique slug", shared.ErrConflict)
}

func idPtr(id shared.ID) *shared.ID {
	return &id
}
