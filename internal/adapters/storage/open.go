// Package storage selects a ports.Store implementation from a DSN
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"helpbot/internal/adapters/memory"
	"helpbot/internal/adapters/postgres"
	"helpbot/internal/adapters/sqlite"
	"helpbot/internal/ports"
)

// ErrUnsupportedScheme is returned for DSNs no adapter understands
var ErrUnsupportedScheme = errors.New("unsupported store scheme")

// Open builds a store from dsn:
//
//	""                     sqlite at sqlite.DefaultPath()
//	/path/kb.db            sqlite at that path
//	file:// or sqlite://   sqlite at the URL path
//	memory://              process-local store
//	postgres://            Postgres
func Open(ctx context.Context, dsn string) (ports.Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return sqlite.Open(ctx, "")
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse store dsn: %w", err)
	}

	switch scheme := strings.ToLower(parsed.Scheme); scheme {
	case "":
		return sqlite.Open(ctx, dsn)
	case "file", "sqlite", "sqlite3":
		path, err := dsnPath(parsed)
		if err != nil {
			return nil, err
		}
		return sqlite.Open(ctx, path)
	case "memory", "mem", "inmem":
		return memory.NewStore(), nil
	case "postgres", "postgresql":
		return postgres.Open(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

func dsnPath(parsed *url.URL) (string, error) {
	path := strings.TrimSpace(parsed.Path)
	if path == "" {
		path = strings.TrimSpace(parsed.Opaque)
	}
	if parsed.Host != "" {
		// sqlite://data/kb.db keeps its relative path
		path = parsed.Host + path
	}
	if path == "" {
		return "", fmt.Errorf("store dsn %q has no path", parsed.String())
	}
	return path, nil
}
