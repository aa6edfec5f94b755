// Package sqlite persists the knowledge base in a single SQLite file
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"helpbot/internal/domain"
	"helpbot/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Store implements ports.Store on one entries table keyed by (collection, key)
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements ports.Store
var _ ports.Store = (*Store)(nil)

// Open opens or creates the database at path. An empty path uses DefaultPath.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	// WAL lets scans run alongside writes from other connections
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS entries (
			collection TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB NOT NULL,
			PRIMARY KEY (collection, key)
		) WITHOUT ROWID;
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Store{db: db, dbPath: path}, nil
}

// DefaultPath returns the database location under the XDG data directory
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "helpbot", "helpbot.db")
}

// Path returns the database file in use
func (s *Store) Path() string {
	return s.dbPath
}

// SchemaVersion reports the schema version recorded in the database
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return version, err
}

// Collection returns the named namespace
func (s *Store) Collection(name string) ports.Collection {
	return &collection{db: s.db, name: name}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func storageErr(op, collection, key string, err error) error {
	return &domain.StorageError{Op: op, Collection: collection, Key: key, Err: err}
}
