package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Expense, int, error)
	// ListByDateRange returns expenses with date in [start, end].
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*Expense, error)
}
