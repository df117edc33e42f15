package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS cases (
    id               BIGSERIAL PRIMARY KEY,
    case_number      TEXT NOT NULL UNIQUE,
    title            TEXT NOT NULL,
    court            TEXT NOT NULL DEFAULT '',
    client_name      TEXT NOT NULL DEFAULT '',
    client_address   TEXT NOT NULL DEFAULT '',
    opponent_name    TEXT NOT NULL DEFAULT '',
    opponent_address TEXT NOT NULL DEFAULT '',
    summary          TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS case_facts (
    case_id     BIGINT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
    position    INT NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (case_id, position)
);

CREATE TABLE IF NOT EXISTS case_issues (
    case_id      BIGINT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
    position     INT NOT NULL,
    title        TEXT NOT NULL DEFAULT '',
    priority     TEXT NOT NULL DEFAULT '',
    law_sections TEXT[] NOT NULL DEFAULT '{}',
    PRIMARY KEY (case_id, position)
);
`

// Migrate создает таблицы, если их еще нет. Идемпотентно.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func isDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
