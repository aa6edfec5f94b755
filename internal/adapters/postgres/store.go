// Package postgres persists the knowledge base in a Postgres table
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/lib/pq"

	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

const (
	defaultTableName = "helpbot_entries"
	setupTimeout     = 5 * time.Second
)

// Store implements ports.Store on one table keyed by (collection, key)
type Store struct {
	db    *sql.DB
	table string
}

// Ensure Store implements ports.Store
var _ ports.Store = (*Store)(nil)

// Open connects to dsn and creates the entries table when missing
func Open(ctx context.Context, dsn string) (*Store, error) {
	return open(ctx, dsn, defaultTableName)
}

func open(ctx context.Context, dsn, table string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			collection TEXT NOT NULL,
			key TEXT NOT NULL,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (collection, key)
		)`, quoteIdentifier(table))
	if _, err := db.ExecContext(ctx, query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	return &Store{db: db, table: table}, nil
}

// Collection returns the named namespace
func (s *Store) Collection(name string) ports.Collection {
	return &collection{db: s.db, table: quoteIdentifier(s.table), name: name}
}

// Close closes the connection pool
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type collection struct {
	db    *sql.DB
	table string // already quoted
	name  string
}

// Ensure collection implements ports.Collection
var _ ports.Collection = (*collection)(nil)

func (c *collection) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE collection = $1 AND key = $2", c.table)
	var value []byte
	err := c.db.QueryRowContext(ctx, query, c.name, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, c.storageErr("get", key, err)
	}
	return value, nil
}

func (c *collection) Put(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (collection, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, c.table)
	if _, err := c.db.ExecContext(ctx, query, c.name, key, value); err != nil {
		return c.storageErr("put", key, err)
	}
	return nil
}

func (c *collection) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE collection = $1 AND key = $2", c.table)
	if _, err := c.db.ExecContext(ctx, query, c.name, key); err != nil {
		return c.storageErr("delete", key, err)
	}
	return nil
}

// BatchDelete removes keys in a single statement
func (c *collection) BatchDelete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE collection = $1 AND key = ANY($2)", c.table)
	if _, err := c.db.ExecContext(ctx, query, c.name, pq.Array(keys)); err != nil {
		return c.storageErr("batch delete", "", err)
	}
	return nil
}

// Scan streams rows in byte-wise key order
func (c *collection) Scan(ctx context.Context) iter.Seq2[ports.Entry, error] {
	return func(yield func(ports.Entry, error) bool) {
		query := fmt.Sprintf(`SELECT key, value FROM %s WHERE collection = $1 ORDER BY key COLLATE "C"`, c.table)
		rows, err := c.db.QueryContext(ctx, query, c.name)
		if err != nil {
			yield(ports.Entry{}, c.storageErr("scan", "", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e ports.Entry
			if err := rows.Scan(&e.Key, &e.Value); err != nil {
				yield(ports.Entry{}, c.storageErr("scan", "", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(ports.Entry{}, c.storageErr("scan", "", err))
		}
	}
}

func (c *collection) storageErr(op, key string, err error) error {
	return &domain.StorageError{Op: op, Collection: c.name, Key: key, Err: err}
}

func quoteIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "\"\""
	}
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
