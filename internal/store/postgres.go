package store

import (
	"context"
	"database/sql"
)

// PostgresStore persists paid identities in a single table:
//
//	CREATE TABLE paid_identities (
//	    identity TEXT PRIMARY KEY,
//	    paid_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

var _ PaidStore = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) IsPaid(ctx context.Context, identity string) (bool, error) {
	var paid bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM paid_identities WHERE identity = $1)
	`, identity).Scan(&paid)
	return paid, err
}

func (s *PostgresStore) MarkPaid(ctx context.Context, identity string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO paid_identities (identity)
		VALUES ($1)
		ON CONFLICT (identity) DO NOTHING
	`, identity)
	return err
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM paid_identities`).Scan(&n)
	return n, err
}
