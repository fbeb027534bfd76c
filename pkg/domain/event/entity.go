// Package event defines the append-only property activity log.
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Action identifies what happened.
type Action string

const (
	ActionPropertyCreated    Action = "property.created"
	ActionPropertyUpdated    Action = "property.updated"
	ActionPropertyDeleted    Action = "property.deleted"
	ActionVisibilityChanged  Action = "property.visibility_changed"
	ActionSlugRegenerated    Action = "property.slug_regenerated"
	ActionRoleGranted        Action = "stakeholder.role_granted"
	ActionRoleRevoked        Action = "stakeholder.role_revoked"
	ActionDocumentUploaded   Action = "document.uploaded"
	ActionDocumentDeleted    Action = "document.deleted"
	ActionMediaUploaded      Action = "media.uploaded"
	ActionMediaDeleted       Action = "media.deleted"
	ActionTaskCreated        Action = "task.created"
	ActionTaskUpdated        Action = "task.updated"
	ActionTaskDeleted        Action = "task.deleted"
	ActionIssueRaised        Action = "issue.raised"
	ActionIssueResolved      Action = "issue.resolved"
	ActionIssueDeleted       Action = "issue.deleted"
	ActionInvitationCreated  Action = "invitation.created"
	ActionInvitationAccepted Action = "invitation.accepted"
	ActionInvitationDeclined Action = "invitation.declined"
	ActionInvitationRevoked  Action = "invitation.revoked"
)

// String returns the string representation of the action.
func (a Action) String() string { return string(a) }

// Event is one append-only activity row for a property.
type Event struct {
	id         shared.ID
	propertyID shared.ID
	actorID    *shared.ID // nil for system actions
	action     Action
	entityType string
	entityID   *shared.ID
	metadata   map[string]any
	createdAt  time.Time
}

// New creates a new Event.
func New(propertyID shared.ID, actorID *shared.ID, action Action, entityType string, entityID *shared.ID, metadata map[string]any) (*Event, error) {
	if propertyID.IsZero() {
		return nil, fmt.Errorf("%w: propertyID is required", shared.ErrValidation)
	}
	if action == "" {
		return nil, fmt.Errorf("%w: action is required", shared.ErrValidation)
	}
	return &Event{
		id:         shared.NewID(),
		propertyID: propertyID,
		actorID:    actorID,
		action:     action,
		entityType: entityType,
		entityID:   entityID,
		metadata:   metadata,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstitute recreates an Event from persistence.
func Reconstitute(
	id, propertyID shared.ID,
	actorID *shared.ID,
	action Action,
	entityType string,
	entityID *shared.ID,
	metadata map[string]any,
	createdAt time.Time,
) *Event {
	return &Event{
		id:         id,
		propertyID: propertyID,
		actorID:    actorID,
		action:     action,
		entityType: entityType,
		entityID:   entityID,
		metadata:   metadata,
		createdAt:  createdAt,
	}
}

// ID returns the event ID.
func (e *Event) ID() shared.ID { return e.id }

// PropertyID returns the property the event belongs to.
func (e *Event) PropertyID() shared.ID { return e.propertyID }

// ActorID returns the acting user's ID, nil for system actions.
func (e *Event) ActorID() *shared.ID { return e.actorID }

// Action returns what happened.
func (e *Event) Action() Action { return e.action }

// EntityType returns the type of the affected entity, possibly empty.
func (e *Event) EntityType() string { return e.entityType }

// EntityID returns the affected entity's ID, nil if none.
func (e *Event) EntityID() *shared.ID { return e.entityID }

// Metadata returns free-form event metadata.
func (e *Event) Metadata() map[string]any { return e.metadata }

// CreatedAt returns when the event occurred.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// Repository defines persistence operations for events.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	ListByProperty(ctx context.Context, propertyID shared.ID, offset, limit int) ([]*Event, int64, error)
	ListRecent(ctx context.Context, limit int) ([]*Event, error)
}
