// Package postgres reads a reason catalog from a Postgres table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/notfound-service/internal/reasons"
)

const (
	defaultTable = "reasons"
	// undefinedTable is the SQLSTATE Postgres returns for a missing relation.
	undefinedTable = "42P01"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for catalog reads.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

type queryCloser interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
	Close()
}

// Source reads catalog rows ordered by their position column.
type Source struct {
	pool  queryCloser
	table string
}

// New creates a Postgres-backed Source using the provided config.
func New(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	table, err := tableName(cfg.Table)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Source{pool: pool, table: table}, nil
}

// NewWithPool constructs a source from an existing pool (primarily for testing).
func NewWithPool(pool queryCloser, table string) (*Source, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &Source{pool: pool, table: name}, nil
}

func tableName(table string) (string, error) {
	if table == "" {
		table = defaultTable
	}
	if !validTableName.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// Fetch selects every catalog row.
func (s *Source) Fetch(ctx context.Context) ([]reasons.Entry, error) {
	query := fmt.Sprintf(`SELECT message, reason, COALESCE(category, '') FROM %s ORDER BY position`, s.table)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, s.wrap(err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (reasons.Entry, error) {
		var e reasons.Entry
		err := row.Scan(&e.Message, &e.Reason, &e.Category)
		return e, err
	})
	if err != nil {
		return nil, s.wrap(err)
	}
	return entries, nil
}

func (s *Source) wrap(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return fmt.Errorf("%w: %s", reasons.ErrSourceNotFound, s.Location())
	}
	return fmt.Errorf("query %s: %w", s.table, err)
}

// Location implements reasons.Source.
func (s *Source) Location() string {
	return "postgres table " + s.table
}

// Close releases the underlying pool resources.
func (s *Source) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}
