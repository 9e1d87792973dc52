package catalog

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

// =========== Service Repository ===========

type serviceRepoPG struct{ pool *pgxpool.Pool }

func NewServiceRepoPG(pool *pgxpool.Pool) ServiceRepository { return &serviceRepoPG{pool: pool} }

func (r *serviceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *serviceRepoPG) Create(ctx context.Context, s *Service) error {
	s.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx,
		`INSERT INTO services (id, service_name) VALUES ($1, $2) RETURNING created_at`,
		s.ID, s.ServiceName).Scan(&s.CreatedAt)
}

func (r *serviceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var s Service
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, service_name, created_at FROM services WHERE id = $1`, id).
		Scan(&s.ID, &s.ServiceName, &s.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *serviceRepoPG) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM services WHERE LOWER(service_name) = LOWER($1) AND id <> $2)`,
		name, excludeID).Scan(&exists)
	return exists, err
}

func (r *serviceRepoPG) Update(ctx context.Context, s *Service) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE services SET service_name=$2 WHERE id = $1`, s.ID, s.ServiceName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	return err
}

func (r *serviceRepoPG) List(ctx context.Context, limit, offset int) ([]*Service, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM services`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, service_name, created_at FROM services ORDER BY service_name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.ServiceName, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &s)
	}
	return items, total, rows.Err()
}

// =========== SubService Repository ===========

type subServiceRepoPG struct{ pool *pgxpool.Pool }

func NewSubServiceRepoPG(pool *pgxpool.Pool) SubServiceRepository {
	return &subServiceRepoPG{pool: pool}
}

func (r *subServiceRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *subServiceRepoPG) Create(ctx context.Context, ss *SubService) error {
	ss.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx,
		`INSERT INTO sub_services (id, service_id, sub_service_name) VALUES ($1, $2, $3) RETURNING created_at`,
		ss.ID, ss.ServiceID, ss.SubServiceName).Scan(&ss.CreatedAt)
}

func (r *subServiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*SubService, error) {
	var ss SubService
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, service_id, sub_service_name, created_at FROM sub_services WHERE id = $1`, id).
		Scan(&ss.ID, &ss.ServiceID, &ss.SubServiceName, &ss.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &ss, nil
}

func (r *subServiceRepoPG) ExistsByName(ctx context.Context, serviceID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sub_services
			WHERE service_id = $1 AND LOWER(sub_service_name) = LOWER($2) AND id <> $3)`,
		serviceID, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *subServiceRepoPG) Update(ctx context.Context, ss *SubService) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE sub_services SET sub_service_name=$2 WHERE id = $1`, ss.ID, ss.SubServiceName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *subServiceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM sub_services WHERE id = $1`, id)
	return err
}

func (r *subServiceRepoPG) DeleteByService(ctx context.Context, serviceID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM sub_services WHERE service_id = $1`, serviceID)
	return err
}

func (r *subServiceRepoPG) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*SubService, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, service_id, sub_service_name, created_at FROM sub_services
		WHERE service_id = $1 ORDER BY sub_service_name`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SubService
	for rows.Next() {
		var ss SubService
		if err := rows.Scan(&ss.ID, &ss.ServiceID, &ss.SubServiceName, &ss.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &ss)
	}
	return items, rows.Err()
}
