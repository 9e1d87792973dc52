// Package catalog manages the clinic's offered services and their
// sub-services.
package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("catalog: not found")
	ErrDuplicate = errors.New("catalog: name already exists")
)

// Service maps to the services table.
type Service struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ServiceName string    `db:"service_name" json:"service_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// SubService maps to the sub_services table. Rows are scoped to a
// Service and removed with it.
type SubService struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ServiceID      uuid.UUID `db:"service_id" json:"service_id"`
	SubServiceName string    `db:"sub_service_name" json:"sub_service_name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
