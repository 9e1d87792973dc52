package inventory

import (
	"context"
	"errors"

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

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// =========== Product Repository ===========

type productRepoPG struct{ pool *pgxpool.Pool }

func NewProductRepoPG(pool *pgxpool.Pool) ProductRepository { return &productRepoPG{pool: pool} }

func (r *productRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const productCols = `id, name, category, price, stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *productRepoPG) Create(ctx context.Context, p *Product) error {
	p.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO products (id, name, category, price, stock)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Category, p.Price, p.Stock).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return scanProduct(r.conn(ctx).QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id = $1`, id))
}

func (r *productRepoPG) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE LOWER(name) = LOWER($1) AND id <> $2)`,
		name, excludeID).Scan(&exists)
	return exists, err
}

func (r *productRepoPG) Update(ctx context.Context, p *Product) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE products SET name=$2, category=$3, price=$4, stock=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Category, p.Price, p.Stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *productRepoPG) List(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+productCols+` FROM products ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// =========== Category Repository ===========

type categoryRepoPG struct{ pool *pgxpool.Pool }

func NewCategoryRepoPG(pool *pgxpool.Pool) CategoryRepository { return &categoryRepoPG{pool: pool} }

func (r *categoryRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *categoryRepoPG) Create(ctx context.Context, c *Category) error {
	c.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2) RETURNING created_at`,
		c.ID, c.Name).Scan(&c.CreatedAt)
}

func (r *categoryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	var c Category
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *categoryRepoPG) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND id <> $2)`,
		name, excludeID).Scan(&exists)
	return exists, err
}

func (r *categoryRepoPG) Update(ctx context.Context, c *Category) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE categories SET name=$2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (r *categoryRepoPG) List(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, created_at FROM categories ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &c)
	}
	return items, total, rows.Err()
}
