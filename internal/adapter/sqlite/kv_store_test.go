package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/kvtest"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
	_ "modernc.org/sqlite"
)

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cart.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	var name string
	row := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries'`)
	if err := row.Scan(&name); err != nil {
		t.Fatalf("expected kv_entries table: %v", err)
	}
}

func TestKVStoreRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cart.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Get(ctx, "cart:products"); err != repository.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "cart:products", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "cart:products", `[{"id":"p1","quantity":1}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "cart:products")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[{"id":"p1","quantity":1}]` {
		t.Fatalf("value = %q", got)
	}

	if err := reopened.Remove(ctx, "cart:products"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := reopened.Get(ctx, "cart:products"); err != repository.ErrNotFound {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestKVStoreContract(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "contract.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	kvtest.RunContract(t, store)
}
