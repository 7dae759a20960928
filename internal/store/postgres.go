package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const alternativeColumns = `id, label, attributes, image_url, created_at, updated_at`

func scanAlternative(row pgx.Row) (*Alternative, error) {
	a := &Alternative{}
	var attrs []byte
	if err := row.Scan(&a.ID, &a.Label, &attrs, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrs, &a.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes of %q: %w", a.Label, err)
	}
	return a, nil
}

func (s *PostgresStore) ListAlternatives(ctx context.Context) ([]*Alternative, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+alternativeColumns+`
		FROM topsis_alternatives ORDER BY created_at, label`)
	if err != nil {
		return nil, fmt.Errorf("list alternatives: %w", err)
	}
	defer rows.Close()

	var out []*Alternative
	for rows.Next() {
		a, err := scanAlternative(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetAlternative(ctx context.Context, label string) (*Alternative, error) {
	a, err := scanAlternative(s.pool.QueryRow(ctx, `
		SELECT `+alternativeColumns+`
		FROM topsis_alternatives WHERE label = $1`, label))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) UpsertAlternative(ctx context.Context, a *Alternative) error {
	attrs, err := json.Marshal(a.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO topsis_alternatives (label, attributes, image_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (label) DO UPDATE
		SET attributes = EXCLUDED.attributes,
			image_url = EXCLUDED.image_url,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		a.Label, attrs, a.ImageURL,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (s *PostgresStore) DeleteAlternative(ctx context.Context, label string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM topsis_alternatives WHERE label = $1`, label)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
