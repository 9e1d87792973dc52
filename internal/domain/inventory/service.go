package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	products   ProductRepository
	categories CategoryRepository
}

func NewService(p ProductRepository, c CategoryRepository) *Service {
	return &Service{products: p, categories: c}
}

func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	exists, err := s.products.ExistsByName(ctx, p.Name, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	return s.products.Create(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	exists, err := s.products.ExistsByName(ctx, p.Name, p.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	return s.products.Update(ctx, p)
}

func validateProduct(p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.GetByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	return s.products.List(ctx, limit, offset)
}

func (s *Service) CreateCategory(ctx context.Context, c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	exists, err := s.categories.ExistsByName(ctx, c.Name, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	return s.categories.Create(ctx, c)
}

func (s *Service) UpdateCategory(ctx context.Context, c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	exists, err := s.categories.ExistsByName(ctx, c.Name, c.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	return s.categories.Update(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	return s.categories.List(ctx, limit, offset)
}
