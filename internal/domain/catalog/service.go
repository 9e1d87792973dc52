package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

// Catalog orchestrates service and sub-service management.
type Catalog struct {
	services    ServiceRepository
	subServices SubServiceRepository
	pool        *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool, s ServiceRepository, ss SubServiceRepository) *Catalog {
	return &Catalog{services: s, subServices: ss, pool: pool}
}

func (c *Catalog) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.pool == nil {
		return fn(ctx)
	}
	return db.RunInTx(ctx, c.pool, fn)
}

func (c *Catalog) CreateService(ctx context.Context, s *Service) error {
	s.ServiceName = strings.TrimSpace(s.ServiceName)
	if s.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	exists, err := c.services.ExistsByName(ctx, s.ServiceName, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	return c.services.Create(ctx, s)
}

func (c *Catalog) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	return c.services.GetByID(ctx, id)
}

func (c *Catalog) UpdateService(ctx context.Context, s *Service) error {
	s.ServiceName = strings.TrimSpace(s.ServiceName)
	if s.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	exists, err := c.services.ExistsByName(ctx, s.ServiceName, s.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	return c.services.Update(ctx, s)
}

// DeleteService removes the service and all of its sub-services.
func (c *Catalog) DeleteService(ctx context.Context, id uuid.UUID) error {
	return c.inTx(ctx, func(ctx context.Context) error {
		if _, err := c.services.GetByID(ctx, id); err != nil {
			return err
		}
		if err := c.subServices.DeleteByService(ctx, id); err != nil {
			return err
		}
		return c.services.Delete(ctx, id)
	})
}

func (c *Catalog) ListServices(ctx context.Context, limit, offset int) ([]*Service, int, error) {
	return c.services.List(ctx, limit, offset)
}

func (c *Catalog) CreateSubService(ctx context.Context, ss *SubService) error {
	ss.SubServiceName = strings.TrimSpace(ss.SubServiceName)
	if ss.SubServiceName == "" {
		return fmt.Errorf("sub_service_name is required")
	}
	if _, err := c.services.GetByID(ctx, ss.ServiceID); err != nil {
		return err
	}
	exists, err := c.subServices.ExistsByName(ctx, ss.ServiceID, ss.SubServiceName, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	return c.subServices.Create(ctx, ss)
}

func (c *Catalog) UpdateSubService(ctx context.Context, id uuid.UUID, name string) (*SubService, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("sub_service_name is required")
	}
	ss, err := c.subServices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	exists, err := c.subServices.ExistsByName(ctx, ss.ServiceID, name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}
	ss.SubServiceName = name
	if err := c.subServices.Update(ctx, ss); err != nil {
		return nil, err
	}
	return ss, nil
}

func (c *Catalog) DeleteSubService(ctx context.Context, id uuid.UUID) error {
	if _, err := c.subServices.GetByID(ctx, id); err != nil {
		return err
	}
	return c.subServices.Delete(ctx, id)
}

func (c *Catalog) ListSubServices(ctx context.Context, serviceID uuid.UUID) ([]*SubService, error) {
	if _, err := c.services.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}
	return c.subServices.ListByService(ctx, serviceID)
}
