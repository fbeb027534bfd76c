// Package watchlist defines a user's watched properties.
package watchlist

import (
	"context"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Entry is one watched (user, property) pair.
type Entry struct {
	id         shared.ID
	userID     shared.ID
	propertyID shared.ID
	createdAt  time.Time
}

// New creates a new watchlist Entry.
func New(userID, propertyID shared.ID) (*Entry, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: userID is required", shared.ErrValidation)
	}
	if propertyID.IsZero() {
		return nil, fmt.Errorf("%w: propertyID is required", shared.ErrValidation)
	}
	return &Entry{
		id:         shared.NewID(),
		userID:     userID,
		propertyID: propertyID,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstitute recreates an Entry from persistence.
func Reconstitute(id, userID, propertyID shared.ID, createdAt time.Time) *Entry {
	return &Entry{id: id, userID: userID, propertyID: propertyID, createdAt: createdAt}
}

// ID returns the entry ID.
func (e *Entry) ID() shared.ID { return e.id }

// UserID returns the watching user's ID.
func (e *Entry) UserID() shared.ID { return e.userID }

// PropertyID returns the watched property's ID.
func (e *Entry) PropertyID() shared.ID { return e.propertyID }

// CreatedAt returns when the property was added to the watchlist.
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// Repository defines persistence operations for watchlist entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, userID, propertyID shared.ID) error
	ListByUser(ctx context.Context, userID shared.ID) ([]*Entry, error)
	Exists(ctx context.Context, userID, propertyID shared.ID) (bool, error)
}
