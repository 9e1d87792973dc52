package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) validate(e *Expense) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, e *Expense) error {
	if err := s.validate(e); err != nil {
		return err
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	return s.repo.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Expense) error {
	if err := s.validate(e); err != nil {
		return err
	}
	cur, err := s.repo.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	if e.Date.IsZero() {
		e.Date = cur.Date
	}
	return s.repo.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Expense, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// InRange returns expenses dated inside the closed interval [start, end],
// expanded to whole local days, plus their sum.
func (s *Service) InRange(ctx context.Context, start, end time.Time) ([]*Expense, decimal.Decimal, error) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())
	items, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, decimal.Zero, err
	}
	sum := decimal.Zero
	for _, e := range items {
		sum = sum.Add(e.Amount)
	}
	return items, sum, nil
}
