package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/postforge/identity/internal/client/api"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "credentials.db")
	db, err := InitDatabase(context.Background(), dsn)
	if err != nil {
		t.Fatalf("InitDatabase error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db)
}

func TestLoad_Empty(t *testing.T) {
	s := newTestStore(t)

	creds, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if creds != nil {
		t.Fatalf("expected nil credentials, got %+v", creds)
	}
}

func TestSaveLoadClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &Credentials{
		Token: "tok-1",
		User:  api.User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Plan: "premium"},
	}
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got == nil || got.Token != "tok-1" || got.User.Email != "alice@example.com" {
		t.Fatalf("unexpected credentials: %+v", got)
	}

	// Save overwrites in place.
	in.Token = "tok-2"
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Token != "tok-2" {
		t.Fatalf("expected overwritten token, got %q", got.Token)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after clear, got %+v", got)
	}
}
