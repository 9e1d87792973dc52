// Package personalization stores the clinic's branding settings as a
// single row: the display title and the initial shown in the UI header.
package personalization

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

var ErrNotFound = errors.New("personalization: not configured")

type Settings struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Initial   string    `db:"initial" json:"initial"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Repository interface {
	// Get returns the settings row, or ErrNotFound when none exists yet.
	Get(ctx context.Context) (*Settings, error)
	Create(ctx context.Context, s *Settings) error
	Update(ctx context.Context, s *Settings) error
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
} {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, title, initial, updated_at FROM personalization ORDER BY updated_at LIMIT 1`).
		Scan(&s.ID, &s.Title, &s.Initial, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Settings) error {
	s.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx,
		`INSERT INTO personalization (id, title, initial) VALUES ($1, $2, $3) RETURNING updated_at`,
		s.ID, s.Title, s.Initial).Scan(&s.UpdatedAt)
}

func (r *repoPG) Update(ctx context.Context, s *Settings) error {
	return r.conn(ctx).QueryRow(ctx,
		`UPDATE personalization SET title=$2, initial=$3, updated_at=NOW() WHERE id = $1 RETURNING updated_at`,
		s.ID, s.Title, s.Initial).Scan(&s.UpdatedAt)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

// Save upserts the single settings row: the existing row is updated in
// place, otherwise one is created.
func (s *Service) Save(ctx context.Context, title, initial string) (*Settings, error) {
	title = strings.TrimSpace(title)
	initial = strings.TrimSpace(initial)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if initial == "" {
		initial = strings.ToUpper(title[:1])
	}

	cur, err := s.repo.Get(ctx)
	switch {
	case err == nil:
		cur.Title = title
		cur.Initial = initial
		if err := s.repo.Update(ctx, cur); err != nil {
			return nil, err
		}
		return cur, nil
	case errors.Is(err, ErrNotFound):
		set := &Settings{Title: title, Initial: initial}
		if err := s.repo.Create(ctx, set); err != nil {
			return nil, err
		}
		return set, nil
	default:
		return nil, err
	}
}
