package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // pure go sqlite driver
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// SQLStore persists snapshots as one row per key in the ledger_state table.
// The same statements run on SQLite and PostgreSQL.
type SQLStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("storage.OpenSQLite: create dirs: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.OpenSQLite: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer
	return NewSQLStore(db)
}

// OpenPostgres connects to PostgreSQL with the given DSN.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage.OpenPostgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return NewSQLStore(db)
}

// NewSQLStore wraps an open database and ensures the state table exists.
func NewSQLStore(db *sqlx.DB) (*SQLStore, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ledger_state (
		bucket     TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage.NewSQLStore: create table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Put upserts the snapshot stored under key.
func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO ledger_state (bucket, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (bucket) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("sql_store.Put %s: %w", key, err)
	}
	return nil
}

// Get returns the snapshot stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		s.db.Rebind(`SELECT payload FROM ledger_state WHERE bucket = ?`), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("sql_store.Get %s: %w", key, err)
	}
	return []byte(payload), nil
}

// Delete removes the snapshot stored under key.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM ledger_state WHERE bucket = ?`), key); err != nil {
		return fmt.Errorf("sql_store.Delete %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
