package stakeholder

import (
	"context"

	"github.com/propertypassport/api/pkg/domain/access"
	"github.com/propertypassport/api/pkg/domain/shared"
)

// Repository defines persistence operations for stakeholder rows and the
// database-side permission predicates.
type Repository interface {
	// Upsert inserts the row or, when a (user, property, status) row already
	// exists, widens its permission (editor is never downgraded).
	Upsert(ctx context.Context, s *Stakeholder) error
	Delete(ctx context.Context, propertyID, userID shared.ID, status access.Status) error
	DeleteAllForUser(ctx context.Context, propertyID, userID shared.ID) error

	ListByProperty(ctx context.Context, propertyID shared.ID) ([]*Stakeholder, error)
	ListByUser(ctx context.Context, userID shared.ID) ([]*Stakeholder, error)
	HasRole(ctx context.Context, propertyID, userID shared.ID, status access.Status) (bool, error)

	// CanEdit and CanView invoke the database predicate functions
	// can_edit_property and can_view_property. They are the enforcement
	// point; callers must treat errors as denial.
	CanEdit(ctx context.Context, propertyID, userID shared.ID) (bool, error)
	CanView(ctx context.Context, propertyID, userID shared.ID) (bool, error)
}
