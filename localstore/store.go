package localstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("key not found in local store")

// ErrQuotaExceeded is returned when a write would push the store past its
// total byte quota. Callers are expected to shrink their payload and retry.
var ErrQuotaExceeded = errors.New("local store quota exceeded")

// DefaultQuotaBytes approximates the browser localStorage budget the store
// stands in for.
const DefaultQuotaBytes = 5 * 1024 * 1024

// Store is a quota-governed key/value blob store.
//
// Usage:
//
//	store, err := Open("/home/user/.r42copilot/data.db", DefaultQuotaBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
type Store struct {
	db         *sql.DB
	path       string
	quotaBytes int64
	mu         sync.Mutex
}

// Open opens (creating if necessary) the store at the given database path,
// runs pending migrations, and applies the given total byte quota.
// A quota of 0 uses DefaultQuotaBytes.
func Open(path string, quotaBytes int64) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if quotaBytes <= 0 {
		quotaBytes = DefaultQuotaBytes
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	// Migrations own and close their connection, so migrate first and then
	// open the long-lived connection.
	if err := MigrateUpFromPath(path); err != nil {
		return nil, err
	}

	db, err := NewSQLiteConnectionWithDefaults(path)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:         db,
		path:       path,
		quotaBytes: quotaBytes,
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// QuotaBytes returns the configured total byte quota.
func (s *Store) QuotaBytes() int64 {
	return s.quotaBytes
}

// Put writes a value under a key, replacing any existing value.
// Returns ErrQuotaExceeded without writing if the resulting total size across
// all keys would exceed the quota.
func (s *Store) Put(key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.totalSizeLocked()
	if err != nil {
		return err
	}
	existing, err := s.sizeOfLocked(key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if current-existing+int64(len(value)) > s.quotaBytes {
		return ErrQuotaExceeded
	}

	_, err = s.db.Exec(`
		INSERT INTO blobs (key, value, byte_size, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			byte_size = excluded.byte_size,
			updated_at = CURRENT_TIMESTAMP`,
		key, value, len(value))
	if err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	return nil
}

// Get reads the value stored under a key.
// Returns ErrNotFound if the key does not exist.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return value, nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}

// Keys returns all keys currently present in the store.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM blobs ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// TotalSize returns the total byte size across all stored values.
func (s *Store) TotalSize() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSizeLocked()
}

// SizeOf returns the byte size of the value stored under a key.
// Returns ErrNotFound if the key does not exist.
func (s *Store) SizeOf(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sizeOfLocked(key)
}

func (s *Store) totalSizeLocked() (int64, error) {
	var total sql.NullInt64
	if err := s.db.QueryRow("SELECT SUM(byte_size) FROM blobs").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to compute total size: %w", err)
	}
	return total.Int64, nil
}

func (s *Store) sizeOfLocked(key string) (int64, error) {
	var size int64
	err := s.db.QueryRow("SELECT byte_size FROM blobs WHERE key = ?", key).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read size of blob %q: %w", key, err)
	}
	return size, nil
}
