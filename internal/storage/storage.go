// Package storage opens the project store named by the configured DB URL.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/pnaas/internal/config"
	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/rpggio/pnaas/internal/gormstore"
	"github.com/rpggio/pnaas/internal/sqlite"
)

// Dialect is the database family behind a URL.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Store is an open project repository plus the handle that owns it.
type Store struct {
	project.Repository
	Dialect Dialect
	Driver  string
	closeFn func() error
	pingFn  func(context.Context) error
}

// Close releases the database.
func (s *Store) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pingFn == nil {
		return nil
	}
	return s.pingFn(ctx)
}

// ParseURL splits a DB URL into its dialect and the DSN the driver expects.
func ParseURL(raw string) (Dialect, string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "", "", fmt.Errorf("empty database url")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", raw)
		}
		return DialectSQLite, path, nil
	case strings.HasPrefix(raw, "file:"), raw == ":memory:":
		return DialectSQLite, raw, nil
	case strings.Contains(raw, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme in %q", raw)
	default:
		return DialectSQLite, raw, nil
	}
}

// Open connects to the configured database and prepares its schema.
func Open(cfg config.DBConfig, logger *slog.Logger) (*Store, error) {
	dialect, dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		if err := ensureDBDir(dsn); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
	}

	switch cfg.Driver {
	case config.DriverSQL:
		if dialect != DialectSQLite {
			return nil, fmt.Errorf("driver %q supports sqlite urls only", cfg.Driver)
		}
		db, err := sqlite.New(dsn)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			Repository: sqlite.NewProjectRepository(db),
			Dialect:    dialect,
			Driver:     cfg.Driver,
			closeFn:    db.Close,
			pingFn:     db.PingContext,
		}, nil

	case config.DriverGorm, "":
		dialector := gormstore.SQLite(dsn)
		if dialect == DialectPostgres {
			dialector = gormstore.Postgres(dsn)
		}
		store, err := gormstore.Open(dialector, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Repository: store,
			Dialect:    dialect,
			Driver:     config.DriverGorm,
			closeFn:    store.Close,
			pingFn:     store.Ping,
		}, nil

	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
}

func ensureDBDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
