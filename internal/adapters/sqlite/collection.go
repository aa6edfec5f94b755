package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	"helpbot/internal/domain"
	"helpbot/internal/ports"
)

type collection struct {
	db   *sql.DB
	name string
}

// Ensure collection implements ports.Collection
var _ ports.Collection = (*collection)(nil)

func (c *collection) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx, `
		SELECT value FROM entries WHERE collection = ? AND key = ?
	`, c.name, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get", c.name, key, err)
	}
	return value, nil
}

func (c *collection) Put(ctx context.Context, key string, value []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO entries (collection, key, value)
		VALUES (?, ?, ?)
	`, c.name, key, value)
	if err != nil {
		return storageErr("put", c.name, key, err)
	}
	return nil
}

func (c *collection) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM entries WHERE collection = ? AND key = ?`, c.name, key)
	if err != nil {
		return storageErr("delete", c.name, key, err)
	}
	return nil
}

// BatchDelete removes keys in one transaction
func (c *collection) BatchDelete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("batch delete", c.name, "", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM entries WHERE collection = ? AND key = ?`)
	if err != nil {
		return storageErr("batch delete", c.name, "", err)
	}
	defer stmt.Close()

	for _, key := range keys {
		if _, err := stmt.ExecContext(ctx, c.name, key); err != nil {
			return storageErr("batch delete", c.name, key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("batch delete", c.name, "", err)
	}
	return nil
}

// Scan streams rows in key order
func (c *collection) Scan(ctx context.Context) iter.Seq2[ports.Entry, error] {
	return func(yield func(ports.Entry, error) bool) {
		rows, err := c.db.QueryContext(ctx, `
			SELECT key, value FROM entries WHERE collection = ? ORDER BY key
		`, c.name)
		if err != nil {
			yield(ports.Entry{}, storageErr("scan", c.name, "", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e ports.Entry
			if err := rows.Scan(&e.Key, &e.Value); err != nil {
				yield(ports.Entry{}, storageErr("scan", c.name, "", err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(ports.Entry{}, storageErr("scan", c.name, "", err))
		}
	}
}
