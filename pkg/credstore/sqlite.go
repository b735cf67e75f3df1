package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore persists the token pair to a single SQLite table so credentials
// survive process restarts.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the credential database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "credentials.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS credentials (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create credentials table: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

const (
	accessRow  = "access"
	refreshRow = "refresh"
)

func (s *SQLiteStore) AccessToken(ctx context.Context) (string, error) {
	return s.token(ctx, accessRow)
}

func (s *SQLiteStore) RefreshToken(ctx context.Context) (string, error) {
	return s.token(ctx, refreshRow)
}

func (s *SQLiteStore) token(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select %s token: %w", name, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetTokens(ctx context.Context, access, refresh string) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for name, value := range map[string]string{accessRow: access, refreshRow: refresh} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO credentials (name, value) VALUES (?, ?)
			 ON CONFLICT(name) DO UPDATE SET value = excluded.value`, name, value); err != nil {
			return fmt.Errorf("upsert %s token: %w", name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ClearTokens(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
