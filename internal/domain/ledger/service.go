package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/clinicore/clinicore/internal/platform/cache"
	"github.com/clinicore/clinicore/internal/platform/db"
)

const patientsGenKey = "ledger:patients:gen"

type Service struct {
	patients     PatientRepository
	transactions TransactionRepository
	installments InstallmentRepository
	pool         *pgxpool.Pool
	cache        *cache.Cache
	locks        *patientLocks
	now          func() time.Time
}

func NewService(pool *pgxpool.Pool, p PatientRepository, t TransactionRepository, i InstallmentRepository, c *cache.Cache) *Service {
	return &Service{
		patients:     p,
		transactions: t,
		installments: i,
		pool:         pool,
		cache:        c,
		locks:        newPatientLocks(),
		now:          time.Now,
	}
}

// inTx runs fn inside a database transaction when a pool is attached.
// Tests wire the service with mock repositories and no pool.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.RunInTx(ctx, s.pool, fn)
}

func (s *Service) invalidatePatients(ctx context.Context) {
	_ = s.cache.Bump(ctx, patientsGenKey)
}

// IntakeInput is the patient registration payload. For one-time services
// ServicePrice is charged in full; for installment services TotalPrice
// and InitialPayment open the balance.
type IntakeInput struct {
	PatientName    string          `json:"patient_name"`
	PatientAge     *int            `json:"patient_age,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Gender         *string         `json:"gender,omitempty"`
	Contact        *string         `json:"contact,omitempty"`
	ServiceName    string          `json:"service_name"`
	SubServiceName *string         `json:"sub_service_name,omitempty"`
	ServiceType    string          `json:"service_type"`
	ServicePrice   decimal.Decimal `json:"service_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	InitialPayment decimal.Decimal `json:"initial_payment"`
}

func (in *IntakeInput) validate() error {
	if in.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if in.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	switch in.ServiceType {
	case ServiceTypeOneTime:
		if in.ServicePrice.IsNegative() {
			return fmt.Errorf("service_price must not be negative")
		}
	case ServiceTypeInstallment:
		if in.TotalPrice.IsNegative() {
			return fmt.Errorf("total_price must not be negative")
		}
		if in.InitialPayment.IsNegative() {
			return fmt.Errorf("initial_payment must not be negative")
		}
	default:
		return fmt.Errorf("invalid service_type: %s", in.ServiceType)
	}
	return nil
}

// CreatePatient registers a patient and records the intake payment.
// Installment intake writes three linked rows: the patient with its
// opening balance, the initial-payment transaction, and the installment
// pairing them. One-time intake writes the patient with zero balance and
// a single transaction for the full price.
func (s *Service) CreatePatient(ctx context.Context, in *IntakeInput) (*Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		PatientName:    in.PatientName,
		PatientAge:     in.PatientAge,
		Address:        in.Address,
		Gender:         in.Gender,
		Contact:        in.Contact,
		ServiceName:    in.ServiceName,
		SubServiceName: in.SubServiceName,
		ServiceType:    in.ServiceType,
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		switch in.ServiceType {
		case ServiceTypeInstallment:
			p.ServicePrice = in.TotalPrice
			p.Balance = in.TotalPrice.Sub(in.InitialPayment)
			if err := s.patients.Create(ctx, p); err != nil {
				return err
			}
			txn := &Transaction{
				PatientID:      &p.ID,
				PatientName:    p.PatientName,
				ServiceName:    p.ServiceName,
				SubServiceName: p.SubServiceName,
				Amount:         in.InitialPayment,
				PaymentType:    PaymentTypeInstallment,
				Date:           s.now(),
			}
			if err := s.transactions.Create(ctx, txn); err != nil {
				return err
			}
			return s.installments.Create(ctx, &Installment{
				PatientID:     p.ID,
				AmountPaid:    in.InitialPayment,
				BalanceAfter:  p.Balance,
				PaymentDate:   txn.Date,
				TransactionID: txn.ID,
			})
		default: // One-time
			p.ServicePrice = in.ServicePrice
			p.Balance = decimal.Zero
			if err := s.patients.Create(ctx, p); err != nil {
				return err
			}
			return s.transactions.Create(ctx, &Transaction{
				PatientID:      &p.ID,
				PatientName:    p.PatientName,
				ServiceName:    p.ServiceName,
				SubServiceName: p.SubServiceName,
				Amount:         in.ServicePrice,
				PaymentType:    PaymentTypeOneTime,
				Date:           s.now(),
			})
		}
	})
	if err != nil {
		return nil, err
	}
	s.invalidatePatients(ctx)
	return p, nil
}

// PaymentInput records a payment against a patient balance.
type PaymentInput struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
	Remarks     *string         `json:"remarks,omitempty"`
}

// PaymentResult returns the recorded transaction and the balance it left.
type PaymentResult struct {
	Transaction *Transaction    `json:"transaction"`
	Balance     decimal.Decimal `json:"balance"`
}

// AddPayment debits the payment amount from the patient balance and
// writes the transaction/installment pair. The balance is re-read under
// a row lock inside the transaction, so concurrent payments serialize.
// Overpayment is accepted and drives the balance negative.
func (s *Service) AddPayment(ctx context.Context, patientID uuid.UUID, in *PaymentInput) (*PaymentResult, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	paymentType := in.PaymentType
	if paymentType == "" {
		paymentType = PaymentTypeInstallmentPay
	}
	if !reversesBalance(paymentType) {
		return nil, fmt.Errorf("invalid payment_type: %s", paymentType)
	}

	s.locks.lock(patientID)
	defer s.locks.unlock(patientID)

	var result *PaymentResult
	err := s.inTx(ctx, func(ctx context.Context) error {
		p, err := s.patients.GetByID(ctx, patientID)
		if err != nil {
			return err
		}
		txn := &Transaction{
			PatientID:      &p.ID,
			PatientName:    p.PatientName,
			ServiceName:    p.ServiceName,
			SubServiceName: p.SubServiceName,
			Amount:         in.Amount,
			PaymentType:    paymentType,
			Date:           s.now(),
			Remarks:        in.Remarks,
		}
		if err := s.transactions.Create(ctx, txn); err != nil {
			return err
		}
		balance, err := s.patients.GetBalanceForUpdate(ctx, patientID)
		if err != nil {
			return err
		}
		newBalance := balance.Sub(in.Amount)
		if err := s.patients.UpdateBalance(ctx, patientID, newBalance); err != nil {
			return err
		}
		if err := s.installments.Create(ctx, &Installment{
			PatientID:     patientID,
			AmountPaid:    in.Amount,
			BalanceAfter:  newBalance,
			PaymentDate:   txn.Date,
			TransactionID: txn.ID,
		}); err != nil {
			return err
		}
		result = &PaymentResult{Transaction: txn, Balance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidatePatients(ctx)
	return result, nil
}

// DeleteTransaction removes a transaction and its paired installment,
// crediting the amount back onto the patient balance for installment
// payment types. A transaction without an installment (a one-time sale
// or a manual record) is deleted without touching any balance.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	txn, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if txn.PatientID != nil {
		s.locks.lock(*txn.PatientID)
		defer s.locks.unlock(*txn.PatientID)
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		inst, err := s.installments.GetByTransactionID(ctx, id)
		if err != nil && err != ErrNotFound {
			return err
		}
		if inst != nil {
			if err := s.installments.Delete(ctx, inst.ID); err != nil {
				return err
			}
		}
		if err := s.transactions.Delete(ctx, id); err != nil {
			return err
		}
		if inst == nil || txn.PatientID == nil || !reversesBalance(txn.PaymentType) {
			return nil
		}
		balance, err := s.patients.GetBalanceForUpdate(ctx, *txn.PatientID)
		if err != nil {
			if err == ErrNotFound {
				// patient already removed; nothing to credit
				return nil
			}
			return err
		}
		return s.patients.UpdateBalance(ctx, *txn.PatientID, balance.Add(txn.Amount))
	})
	if err != nil {
		return err
	}
	s.invalidatePatients(ctx)
	return nil
}

// DeletePatient removes the patient and every transaction and
// installment linked to it in one transaction.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	err := s.inTx(ctx, func(ctx context.Context) error {
		if _, err := s.patients.GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.transactions.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		if err := s.installments.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		return s.patients.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.invalidatePatients(ctx)
	return nil
}

// UpdatePatient edits demographics and catalog labels. Balance and
// service type are owned by the payment operations and never change
// here.
func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return err
	}
	s.invalidatePatients(ctx)
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

type patientPage struct {
	Items []*Patient `json:"items"`
	Total int        `json:"total"`
}

// ListPatients reads through the cache. Cache keys embed a generation
// counter that every mutating operation bumps, so a hit is never stale.
func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var key string
	if s.cache.Enabled() {
		gen := s.cache.Generation(ctx, patientsGenKey)
		key = fmt.Sprintf("ledger:patients:%d:%d:%d", gen, limit, offset)
		var page patientPage
		if err := s.cache.Get(ctx, key, &page); err == nil {
			return page.Items, page.Total, nil
		}
	}

	items, total, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if key != "" {
		_ = s.cache.Set(ctx, key, patientPage{Items: items, Total: total}, 5*time.Minute)
	}
	return items, total, nil
}

func (s *Service) ListTransactions(ctx context.Context, limit, offset int) ([]*Transaction, int, error) {
	return s.transactions.List(ctx, limit, offset)
}

func (s *Service) ListPatientTransactions(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Transaction, int, error) {
	return s.transactions.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListPatientInstallments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Installment, int, error) {
	return s.installments.ListByPatient(ctx, patientID, limit, offset)
}

// RecordTransaction writes a standalone transaction, untied to any
// patient balance. Used for manual sales records.
func (s *Service) RecordTransaction(ctx context.Context, t *Transaction) error {
	if t.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if t.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}
	if t.PaymentType == "" {
		t.PaymentType = PaymentTypeOneTime
	}
	if t.Date.IsZero() {
		t.Date = s.now()
	}
	t.PatientID = nil
	return s.transactions.Create(ctx, t)
}

// TransactionsInRange returns transactions dated inside the closed
// interval [start, end], expanded to whole local days, plus their sum.
func (s *Service) TransactionsInRange(ctx context.Context, start, end time.Time) ([]*Transaction, decimal.Decimal, error) {
	from, to := DayBounds(start, end)
	items, err := s.transactions.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, decimal.Zero, err
	}
	sum := decimal.Zero
	for _, t := range items {
		sum = sum.Add(t.Amount)
	}
	return items, sum, nil
}

// DayBounds widens [start, end] to full calendar days in local time.
func DayBounds(start, end time.Time) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())
	return from, to
}
