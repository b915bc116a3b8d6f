package role

import (
	"context"
	"errors"

	"github.com/rolegate/rolegate/internal/id"
)

var (
	ErrRoleNotFound     = errors.New("role not found")
	ErrInvalidName      = errors.New("role name must be between 4 and 40 characters")
	ErrInvalidReference = errors.New("role references an operation that is not registered")
)

// Repository defines the interface for role storage
type Repository interface {
	Create(ctx context.Context, r *Role) error
	GetByID(ctx context.Context, roleID id.ID) (*Role, error)
	Update(ctx context.Context, r *Role) error
	Delete(ctx context.Context, roleID id.ID) error
	List(ctx context.Context) ([]*Role, error)
}
