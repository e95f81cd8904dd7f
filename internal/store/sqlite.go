package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ SnapshotStore = (*SQLiteStore)(nil)

// snapshotKey is the single slot every Save overwrites.
const snapshotKey = "lastStockData"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key      TEXT PRIMARY KEY,
	symbol   TEXT NOT NULL,
	data     TEXT NOT NULL,
	saved_at INTEGER NOT NULL
)`

// SQLiteStore implements SnapshotStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns
// a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer at a time; the slot is tiny.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshots table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save overwrites the snapshot slot.
func (s *SQLiteStore) Save(ctx context.Context, symbol string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, symbol, data, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET symbol = excluded.symbol, data = excluded.data, saved_at = excluded.saved_at`,
		snapshotKey, symbol, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", symbol, err)
	}
	return nil
}

// Load returns the slot's data when it holds symbol.
func (s *SQLiteStore) Load(ctx context.Context, symbol string) ([]byte, bool, error) {
	var (
		stored string
		data   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT symbol, data FROM snapshots WHERE key = ?`, snapshotKey,
	).Scan(&stored, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading snapshot: %w", err)
	}
	if stored != symbol {
		return nil, false, nil
	}
	return []byte(data), true, nil
}
