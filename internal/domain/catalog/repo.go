package catalog

import (
	"context"

	"github.com/google/uuid"
)

type ServiceRepository interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	// ExistsByName matches case-insensitively, excluding the given id
	// (uuid.Nil to exclude nothing).
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Service, int, error)
}

type SubServiceRepository interface {
	Create(ctx context.Context, ss *SubService) error
	GetByID(ctx context.Context, id uuid.UUID) (*SubService, error)
	ExistsByName(ctx context.Context, serviceID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, ss *SubService) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByService(ctx context.Context, serviceID uuid.UUID) error
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]*SubService, error)
}
