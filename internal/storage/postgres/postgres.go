// Package postgres is the shared-database implementation of the cache and
// liked stores, for deployments where several clients share one catalog cache.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/mmcdole/movietracker/internal/domain"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

// Store implements domain.CacheStore and domain.LikedStore on PostgreSQL
type Store struct {
	db *sqlx.DB
	tm *TransactionManager
}

var (
	_ domain.CacheStore = (*Store)(nil)
	_ domain.LikedStore = (*Store)(nil)
)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, tm: NewTransactionManager(db)}
}

// Open connects to dsn and applies the schema
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

// Migrate applies every embedded migration in name order. The scripts are
// idempotent so re-running them is harmless.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	names, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
	}
	return nil
}

// InvalidateAll drops every cached record. Liked items are kept.
func (s *Store) InvalidateAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cached_records")
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
