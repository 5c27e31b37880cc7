// Package postgres implements the store ports on PostgreSQL via pgx. UNIQUE and
// PRIMARY KEY constraints are the serialization point for concurrent writers.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepoint/clinic-api/internal/core/domain"
)

//go:embed schema.sql
var schema string

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeFKViolation     = "23503"
)

// NewPool constructs a pgx connection pool and verifies it with a ping.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, errors.New("postgres: empty connection string")
	}

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w: %w", domain.ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w: %w", domain.ErrUnavailable, err)
	}
	return pool, nil
}

// Migrate applies the embedded schema. It is safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", classify(err))
	}
	return nil
}

// constraintError returns the violated constraint when err is a PostgreSQL
// integrity error with the given SQLSTATE code.
func constraintError(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// classify tags connectivity failures with domain.ErrUnavailable and check
// violations with domain.ErrInvalidInput.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := constraintError(err, codeCheckViolation); ok {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	return err
}
