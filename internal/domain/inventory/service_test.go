package inventory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type mockProductRepo struct {
	items map[uuid.UUID]*Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{items: make(map[uuid.UUID]*Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *Product) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) ExistsByName(_ context.Context, name string, excludeID uuid.UUID) (bool, error) {
	for _, p := range m.items {
		if p.ID != excludeID && strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *Product) error {
	if _, ok := m.items[p.ID]; !ok {
		return ErrNotFound
	}
	m.items[p.ID] = p
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockProductRepo) List(_ context.Context, limit, offset int) ([]*Product, int, error) {
	var result []*Product
	for _, p := range m.items {
		result = append(result, p)
	}
	return result, len(result), nil
}

type mockCategoryRepo struct {
	items map[uuid.UUID]*Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{items: make(map[uuid.UUID]*Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *Category) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.items[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepo) ExistsByName(_ context.Context, name string, excludeID uuid.UUID) (bool, error) {
	for _, c := range m.items {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *Category) error {
	if _, ok := m.items[c.ID]; !ok {
		return ErrNotFound
	}
	m.items[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockCategoryRepo) List(_ context.Context, limit, offset int) ([]*Category, int, error) {
	var result []*Category
	for _, c := range m.items {
		result = append(result, c)
	}
	return result, len(result), nil
}

func newTestService() (*Service, *mockProductRepo, *mockCategoryRepo) {
	p := newMockProductRepo()
	c := newMockCategoryRepo()
	return NewService(p, c), p, c
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateProduct(t *testing.T) {
	svc, _, _ := newTestService()
	p := &Product{Name: "Toothpaste", Price: dec("120"), Stock: 40}
	if err := svc.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("id should be assigned")
	}
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if err := svc.CreateProduct(ctx, &Product{Name: "Toothpaste", Price: dec("120")}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := svc.CreateProduct(ctx, &Product{Name: "TOOTHPASTE", Price: dec("99")}); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate for case-insensitive match, got %v", err)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		p    Product
	}{
		{"empty name", Product{Price: dec("10")}},
		{"negative price", Product{Name: "X", Price: dec("-1")}},
		{"negative stock", Product{Name: "X", Price: dec("1"), Stock: -3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.CreateProduct(ctx, &tc.p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUpdateProduct_AllowsOwnName(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	p := &Product{Name: "Toothpaste", Price: dec("120")}
	if err := svc.CreateProduct(ctx, p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	p.Price = dec("130")
	if err := svc.UpdateProduct(ctx, p); err != nil {
		t.Errorf("update keeping its own name should pass, got %v", err)
	}
}

func TestDeleteProduct_Unknown(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.DeleteProduct(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateCategory_Duplicate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if err := svc.CreateCategory(ctx, &Category{Name: "Oral Care"}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if err := svc.CreateCategory(ctx, &Category{Name: "oral care"}); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateCategory_EmptyName(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.CreateCategory(context.Background(), &Category{Name: " "}); err == nil {
		t.Error("expected validation error")
	}
}
