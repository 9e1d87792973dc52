// Package expense tracks clinic expenses.
package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("expense: not found")

// Expense maps to the expenses table.
type Expense struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Title     string          `db:"title" json:"title"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Category  *string         `db:"category" json:"category,omitempty"`
	Date      time.Time       `db:"date" json:"date"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
