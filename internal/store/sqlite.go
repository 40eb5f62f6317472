package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Young4Rare/kbase/internal/errs"
	"github.com/Young4Rare/kbase/internal/store/migrations"
)

// SQLiteStore keeps all records in a single kv table inside one database
// file. Same contract as FileStore, for operators who prefer one artifact
// over a directory of documents.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at dsn and applies pending
// migrations from the embedded filesystem.
func OpenSQLite(ctx context.Context, dsn string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate up: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Load reads and parses the value under key.
func (s *SQLiteStore) Load(ctx context.Context, key string, dest any) error {
	if !ValidKey(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("select %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		s.logger.Warn("discarding corrupt record", zap.String("key", key), zap.Error(err))
		return errs.ErrNotFound
	}
	return nil
}

// Save upserts the value under key.
func (s *SQLiteStore) Save(ctx context.Context, key string, value any) error {
	if !ValidKey(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	const q = `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, q, key, string(data)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Remove deletes the record under key.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
