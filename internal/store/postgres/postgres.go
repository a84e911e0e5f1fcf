// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package postgres implements store.Store on PostgreSQL through
// database/sql and the pgx driver. The schema lives in
// internal/database/migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"nextblog/internal/models"
	"nextblog/internal/store"
)

// uniqueViolation is the SQLSTATE raised by a unique index.
const uniqueViolation = "23505"

// Store is the PostgreSQL store.
type Store struct {
	db *sql.DB
}

// New returns a Store using db. The caller owns db until Close.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w: %w", models.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// wrap annotates err with op. Errors that did not come from the server
// (refused connections, broken pools) are marked ErrStoreUnavailable.
func wrap(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		if pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, models.ErrSlugNotAvailable)
		}
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
	}
}
