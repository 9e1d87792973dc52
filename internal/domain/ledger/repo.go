package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// GetBalanceForUpdate reads the current balance with a row lock;
	// only meaningful inside a transaction.
	GetBalanceForUpdate(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
	Update(ctx context.Context, p *Patient) error
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Transaction, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Transaction, int, error)
	// ListByDateRange returns transactions with date in [start, end].
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*Transaction, error)
}

type InstallmentRepository interface {
	Create(ctx context.Context, i *Installment) error
	// GetByTransactionID returns ErrNotFound when the transaction has no
	// paired installment.
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Installment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Installment, int, error)
}
