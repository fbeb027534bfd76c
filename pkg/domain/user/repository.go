package user

import (
	"context"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id shared.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context, offset, limit int) ([]*User, int64, error)
	Count(ctx context.Context) (int64, error)
}
