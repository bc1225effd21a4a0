package localstore

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, quota int64) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(path, quota)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t, 0)

	value := []byte(`{"firstName":"Ada","email":"ada@example.com"}`)
	if err := store.Put("r42-user-data", value); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get("r42-user-data")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get() = %q, want %q", got, value)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t, 0)

	_, err := store.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestPutReplacesExistingValue(t *testing.T) {
	store := openTestStore(t, 0)

	if err := store.Put("k", []byte("first")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put("k", []byte("second")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}
}

func TestQuotaExceeded(t *testing.T) {
	store := openTestStore(t, 100)

	if err := store.Put("small", make([]byte, 50)); err != nil {
		t.Fatalf("Put() within quota error = %v", err)
	}

	err := store.Put("big", make([]byte, 60))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Put() exceeding quota error = %v, want ErrQuotaExceeded", err)
	}

	// Failed write must not have landed
	if _, err := store.Get("big"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after rejected write error = %v, want ErrNotFound", err)
	}
}

func TestQuotaAccountsForReplacedValue(t *testing.T) {
	store := openTestStore(t, 100)

	if err := store.Put("k", make([]byte, 90)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	// Replacing a 90-byte value with an 80-byte one fits even though 90+80 > quota
	if err := store.Put("k", make([]byte, 80)); err != nil {
		t.Errorf("Put() replacing value error = %v", err)
	}
}

func TestTotalSizeAndSizeOf(t *testing.T) {
	store := openTestStore(t, 0)

	store.Put("a", make([]byte, 10))
	store.Put("b", make([]byte, 20))

	total, err := store.TotalSize()
	if err != nil {
		t.Fatalf("TotalSize() error = %v", err)
	}
	if total != 30 {
		t.Errorf("TotalSize() = %d, want 30", total)
	}

	size, err := store.SizeOf("b")
	if err != nil {
		t.Fatalf("SizeOf() error = %v", err)
	}
	if size != 20 {
		t.Errorf("SizeOf(b) = %d, want 20", size)
	}
}

func TestDeleteAndKeys(t *testing.T) {
	store := openTestStore(t, 0)

	store.Put("a", []byte("x"))
	store.Put("b", []byte("y"))

	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Deleting a missing key is not an error
	if err := store.Delete("a"); err != nil {
		t.Errorf("Delete() on missing key error = %v", err)
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "b" {
		t.Errorf("Keys() = %v, want [b]", keys)
	}
}

func TestReopenPersistsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	store, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Put("k", []byte("survives")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	store.Close()

	reopened, err := Open(path, 0)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("k")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if string(got) != "survives" {
		t.Errorf("Get() after reopen = %q, want %q", got, "survives")
	}
}

func TestMigrationVersionTracksSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ver.db")

	if err := MigrateUpFromPath(path); err != nil {
		t.Fatalf("MigrateUpFromPath() error = %v", err)
	}

	db, err := NewSQLiteConnectionWithDefaults(path)
	if err != nil {
		t.Fatalf("connection error = %v", err)
	}

	version, dirty, err := MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion() error = %v", err)
	}
	if dirty {
		t.Error("migration state should not be dirty")
	}
	if version == 0 {
		t.Error("expected at least one applied migration")
	}
}
