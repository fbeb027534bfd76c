package property

import (
	"context"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Repository defines persistence operations for properties.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id shared.ID) (*Property, error)
	GetBySlug(ctx context.Context, slug string) (*Property, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id shared.ID) error

	// ListByCreator returns properties created by the user, newest first.
	ListByCreator(ctx context.Context, userID shared.ID, offset, limit int) ([]*Property, int64, error)
	// ListIDsByCreator returns just the IDs of properties the user created,
	// for session assembly.
	ListIDsByCreator(ctx context.Context, userID shared.ID) ([]shared.ID, error)
	// SlugExists reports whether a slug is already taken.
	SlugExists(ctx context.Context, slug string) (bool, error)
	Count(ctx context.Context) (int64, error)

	// Search runs the search_properties full-text function when query is
	// non-empty, otherwise a recency-ordered scan, returning rows decorated
	// with attachment counts in database order.
	Search(ctx context.Context, query string, offset, limit int) ([]SearchRow, error)
}
