package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockServiceRepo struct {
	items map[uuid.UUID]*Service
}

func newMockServiceRepo() *mockServiceRepo {
	return &mockServiceRepo{items: make(map[uuid.UUID]*Service)}
}

func (m *mockServiceRepo) Create(_ context.Context, s *Service) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.items[s.ID] = s
	return nil
}

func (m *mockServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*Service, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *mockServiceRepo) ExistsByName(_ context.Context, name string, excludeID uuid.UUID) (bool, error) {
	for _, s := range m.items {
		if s.ID != excludeID && strings.EqualFold(s.ServiceName, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockServiceRepo) Update(_ context.Context, s *Service) error {
	if _, ok := m.items[s.ID]; !ok {
		return ErrNotFound
	}
	m.items[s.ID] = s
	return nil
}

func (m *mockServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockServiceRepo) List(_ context.Context, limit, offset int) ([]*Service, int, error) {
	var result []*Service
	for _, s := range m.items {
		result = append(result, s)
	}
	return result, len(result), nil
}

type mockSubServiceRepo struct {
	items map[uuid.UUID]*SubService
}

func newMockSubServiceRepo() *mockSubServiceRepo {
	return &mockSubServiceRepo{items: make(map[uuid.UUID]*SubService)}
}

func (m *mockSubServiceRepo) Create(_ context.Context, ss *SubService) error {
	ss.ID = uuid.New()
	ss.CreatedAt = time.Now()
	m.items[ss.ID] = ss
	return nil
}

func (m *mockSubServiceRepo) GetByID(_ context.Context, id uuid.UUID) (*SubService, error) {
	ss, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ss, nil
}

func (m *mockSubServiceRepo) ExistsByName(_ context.Context, serviceID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	for _, ss := range m.items {
		if ss.ServiceID == serviceID && ss.ID != excludeID && strings.EqualFold(ss.SubServiceName, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSubServiceRepo) Update(_ context.Context, ss *SubService) error {
	if _, ok := m.items[ss.ID]; !ok {
		return ErrNotFound
	}
	m.items[ss.ID] = ss
	return nil
}

func (m *mockSubServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockSubServiceRepo) DeleteByService(_ context.Context, serviceID uuid.UUID) error {
	for id, ss := range m.items {
		if ss.ServiceID == serviceID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockSubServiceRepo) ListByService(_ context.Context, serviceID uuid.UUID) ([]*SubService, error) {
	var result []*SubService
	for _, ss := range m.items {
		if ss.ServiceID == serviceID {
			result = append(result, ss)
		}
	}
	return result, nil
}

func newTestCatalog() (*Catalog, *mockServiceRepo, *mockSubServiceRepo) {
	s := newMockServiceRepo()
	ss := newMockSubServiceRepo()
	return NewCatalog(nil, s, ss), s, ss
}

// -- Tests --

func TestCreateService(t *testing.T) {
	cat, _, _ := newTestCatalog()
	s := &Service{ServiceName: "Orthodontics"}
	if err := cat.CreateService(context.Background(), s); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	if s.ID == uuid.Nil {
		t.Error("id should be assigned")
	}
}

func TestCreateService_DuplicateName(t *testing.T) {
	cat, _, _ := newTestCatalog()
	ctx := context.Background()
	if err := cat.CreateService(ctx, &Service{ServiceName: "Orthodontics"}); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	if err := cat.CreateService(ctx, &Service{ServiceName: "orthodontics"}); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate for case-insensitive match, got %v", err)
	}
}

func TestCreateService_EmptyName(t *testing.T) {
	cat, _, _ := newTestCatalog()
	if err := cat.CreateService(context.Background(), &Service{ServiceName: "   "}); err == nil {
		t.Error("expected validation error")
	}
}

func TestUpdateService_AllowsOwnName(t *testing.T) {
	cat, _, _ := newTestCatalog()
	ctx := context.Background()
	s := &Service{ServiceName: "Orthodontics"}
	if err := cat.CreateService(ctx, s); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	s.ServiceName = "Orthodontics"
	if err := cat.UpdateService(ctx, s); err != nil {
		t.Errorf("updating a service to its own name should pass, got %v", err)
	}
}

func TestDeleteService_CascadesSubServices(t *testing.T) {
	cat, _, subRepo := newTestCatalog()
	ctx := context.Background()

	s := &Service{ServiceName: "Orthodontics"}
	if err := cat.CreateService(ctx, s); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	for _, name := range []string{"Braces", "Retainers"} {
		if err := cat.CreateSubService(ctx, &SubService{ServiceID: s.ID, SubServiceName: name}); err != nil {
			t.Fatalf("CreateSubService(%s): %v", name, err)
		}
	}

	if err := cat.DeleteService(ctx, s.ID); err != nil {
		t.Fatalf("DeleteService: %v", err)
	}
	if len(subRepo.items) != 0 {
		t.Errorf("expected no surviving sub-services, got %d", len(subRepo.items))
	}
}

func TestDeleteService_Unknown(t *testing.T) {
	cat, _, _ := newTestCatalog()
	if err := cat.DeleteService(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSubService(t *testing.T) {
	cat, _, _ := newTestCatalog()
	ctx := context.Background()
	s := &Service{ServiceName: "Orthodontics"}
	if err := cat.CreateService(ctx, s); err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	ss := &SubService{ServiceID: s.ID, SubServiceName: "Braces"}
	if err := cat.CreateSubService(ctx, ss); err != nil {
		t.Fatalf("CreateSubService: %v", err)
	}
	if err := cat.CreateSubService(ctx, &SubService{ServiceID: s.ID, SubServiceName: "braces"}); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateSubService_UnknownService(t *testing.T) {
	cat, _, _ := newTestCatalog()
	err := cat.CreateSubService(context.Background(), &SubService{ServiceID: uuid.New(), SubServiceName: "Braces"})
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSubService(t *testing.T) {
	cat, _, _ := newTestCatalog()
	ctx := context.Background()
	s := &Service{ServiceName: "Orthodontics"}
	if err := cat.CreateService(ctx, s); err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	ss := &SubService{ServiceID: s.ID, SubServiceName: "Braces"}
	if err := cat.CreateSubService(ctx, ss); err != nil {
		t.Fatalf("CreateSubService: %v", err)
	}

	got, err := cat.UpdateSubService(ctx, ss.ID, "Ceramic Braces")
	if err != nil {
		t.Fatalf("UpdateSubService: %v", err)
	}
	if got.SubServiceName != "Ceramic Braces" {
		t.Errorf("sub_service_name = %s", got.SubServiceName)
	}
}
