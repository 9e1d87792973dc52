package expense

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const expenseCols = `id, title, amount, category, date, created_at`

func scanExpense(row pgx.Row) (*Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.Date, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repoPG) Create(ctx context.Context, e *Expense) error {
	e.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO expenses (id, title, amount, category, date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		e.ID, e.Title, e.Amount, e.Category, e.Date).Scan(&e.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return scanExpense(r.conn(ctx).QueryRow(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, e *Expense) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE expenses SET title=$2, amount=$3, category=$4, date=$5
		WHERE id = $1`,
		e.ID, e.Title, e.Amount, e.Category, e.Date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Expense, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+expenseCols+` FROM expenses ORDER BY date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByDateRange(ctx context.Context, start, end time.Time) ([]*Expense, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+expenseCols+` FROM expenses WHERE date >= $1 AND date <= $2 ORDER BY date`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
