// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists payloads in a single-table SQLite database:
//
//	vault_items(name TEXT PRIMARY KEY, payload TEXT NOT NULL)
//
// One row per vault name. WAL mode keeps the best-effort teardown flush
// from corrupting the file when the process dies mid-write.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS vault_items (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create vault_items table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStoreWithDB wraps an existing database handle. The schema must
// already exist; tests use this with a mocked handle.
func NewSQLiteStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetItem returns the payload stored under name, or nil when absent.
func (s *SQLiteStore) GetItem(ctx context.Context, name string) ([]byte, error) {
	query, args, err := sq.Select("payload").
		From("vault_items").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var payload string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return []byte(payload), nil
}

// SetItem stores payload under name, replacing any previous row.
func (s *SQLiteStore) SetItem(ctx context.Context, name string, payload []byte) error {
	query, args, err := sq.Insert("vault_items").
		Columns("name", "payload").
		Values(name, string(payload)).
		Suffix("ON CONFLICT(name) DO UPDATE SET payload = excluded.payload").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}
