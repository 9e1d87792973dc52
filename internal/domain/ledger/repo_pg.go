package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/clinicore/clinicore/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, patient_name, patient_age, address, gender, contact,
	service_name, sub_service_name, service_type, service_price, balance,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.PatientName, &p.PatientAge, &p.Address, &p.Gender, &p.Contact,
		&p.ServiceName, &p.SubServiceName, &p.ServiceType, &p.ServicePrice, &p.Balance,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, patient_name, patient_age, address, gender, contact,
			service_name, sub_service_name, service_type, service_price, balance)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		p.ID, p.PatientName, p.PatientAge, p.Address, p.Gender, p.Contact,
		p.ServiceName, p.SubServiceName, p.ServiceType, p.ServicePrice, p.Balance).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) GetBalanceForUpdate(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx, `SELECT balance FROM patients WHERE id = $1 FOR UPDATE`, id).Scan(&balance)
	if err != nil {
		return decimal.Zero, notFound(err)
	}
	return balance, nil
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET patient_name=$2, patient_age=$3, address=$4, gender=$5,
			contact=$6, service_name=$7, sub_service_name=$8, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.PatientName, p.PatientAge, p.Address, p.Gender,
		p.Contact, p.ServiceName, p.SubServiceName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET balance=$2, updated_at=NOW() WHERE id = $1`, id, balance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// =========== Transaction Repository ===========

type transactionRepoPG struct{ pool *pgxpool.Pool }

func NewTransactionRepoPG(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepoPG{pool: pool}
}

func (r *transactionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const transactionCols = `id, patient_id, patient_name, service_name, sub_service_name,
	amount, payment_type, date, remarks, created_at`

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.PatientID, &t.PatientName, &t.ServiceName, &t.SubServiceName,
		&t.Amount, &t.PaymentType, &t.Date, &t.Remarks, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *transactionRepoPG) Create(ctx context.Context, t *Transaction) error {
	t.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO transactions (id, patient_id, patient_name, service_name, sub_service_name,
			amount, payment_type, date, remarks)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		t.ID, t.PatientID, t.PatientName, t.ServiceName, t.SubServiceName,
		t.Amount, t.PaymentType, t.Date, t.Remarks).
		Scan(&t.CreatedAt)
}

func (r *transactionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return scanTransaction(r.conn(ctx).QueryRow(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE id = $1`, id))
}

func (r *transactionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return err
}

func (r *transactionRepoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM transactions WHERE patient_id = $1`, patientID)
	return err
}

func (r *transactionRepoPG) List(ctx context.Context, limit, offset int) ([]*Transaction, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+transactionCols+` FROM transactions ORDER BY date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectTransactions(rows, total)
}

func (r *transactionRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Transaction, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE patient_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectTransactions(rows, total)
}

func (r *transactionRepoPG) ListByDateRange(ctx context.Context, start, end time.Time) ([]*Transaction, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE date >= $1 AND date <= $2 ORDER BY date`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := collectTransactions(rows, 0)
	return items, err
}

func collectTransactions(rows pgx.Rows, total int) ([]*Transaction, int, error) {
	var items []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

// =========== Installment Repository ===========

type installmentRepoPG struct{ pool *pgxpool.Pool }

func NewInstallmentRepoPG(pool *pgxpool.Pool) InstallmentRepository {
	return &installmentRepoPG{pool: pool}
}

func (r *installmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const installmentCols = `id, patient_id, amount_paid, balance_after, payment_date,
	transaction_id, created_at`

func scanInstallment(row pgx.Row) (*Installment, error) {
	var i Installment
	err := row.Scan(&i.ID, &i.PatientID, &i.AmountPaid, &i.BalanceAfter, &i.PaymentDate,
		&i.TransactionID, &i.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &i, nil
}

func (r *installmentRepoPG) Create(ctx context.Context, i *Installment) error {
	i.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO installments (id, patient_id, amount_paid, balance_after, payment_date, transaction_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		i.ID, i.PatientID, i.AmountPaid, i.BalanceAfter, i.PaymentDate, i.TransactionID).
		Scan(&i.CreatedAt)
}

func (r *installmentRepoPG) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Installment, error) {
	return scanInstallment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+installmentCols+` FROM installments WHERE transaction_id = $1`, transactionID))
}

func (r *installmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM installments WHERE id = $1`, id)
	return err
}

func (r *installmentRepoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM installments WHERE patient_id = $1`, patientID)
	return err
}

func (r *installmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Installment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM installments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+installmentCols+` FROM installments WHERE patient_id = $1 ORDER BY payment_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Installment
	for rows.Next() {
		i, err := scanInstallment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}
	return items, total, rows.Err()
}
