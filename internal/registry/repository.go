package registry

import (
	"context"
	"errors"

	"github.com/rolegate/rolegate/internal/id"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrInvalidName     = errors.New("service name must be between 4 and 30 characters")
)

// Repository defines the interface for service storage
type Repository interface {
	Create(ctx context.Context, svc *Service) error
	GetByID(ctx context.Context, serviceID id.ID) (*Service, error)
	Update(ctx context.Context, svc *Service) error
	Delete(ctx context.Context, serviceID id.ID) error
	List(ctx context.Context) ([]*Service, error)
}
