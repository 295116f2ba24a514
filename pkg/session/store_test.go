package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bakeshop-mx/storefront-client/pkg/config"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if _, err := store.Get(ctx, KeyToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if err := store.Set(ctx, KeyToken, "tok-123"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := store.Set(ctx, KeyUser, `{"id_usuario":1}`); err != nil {
		t.Fatalf("set user: %v", err)
	}

	got, err := store.Get(ctx, KeyToken)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if got != "tok-123" {
		t.Fatalf("unexpected token %q", got)
	}

	// Partial presence: deleting only the user leaves the token intact.
	if err := store.Del(ctx, KeyUser); err != nil {
		t.Fatalf("del user: %v", err)
	}
	if _, err := store.Get(ctx, KeyUser); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for user, got %v", err)
	}
	if _, err := store.Get(ctx, KeyToken); err != nil {
		t.Fatalf("token should survive user deletion: %v", err)
	}

	if err := store.Del(ctx, KeyToken); err != nil {
		t.Fatalf("del token: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file removed when session empty, got %v", err)
	}
}

func TestFileStoreCorruptFileTreatedAsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store := NewFileStore(path)
	if _, err := store.Get(context.Background(), KeyToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt file should read as empty session, got %v", err)
	}
}

func TestFileStorePermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)
	if err := store.Set(context.Background(), KeyToken, "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestMemoryStoreDelIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, KeyToken, "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Del(ctx, KeyToken, KeyUser); err != nil {
		t.Fatalf("del: %v", err)
	}
	if err := store.Del(ctx, KeyToken, KeyUser); err != nil {
		t.Fatalf("second del: %v", err)
	}
	if _, err := store.Get(ctx, KeyToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewFromConfigSelectsBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	store, err := NewFromConfig(ctx, config.SessionConfig{
		Backend:  config.SessionBackendFile,
		FilePath: filepath.Join(t.TempDir(), "s.json"),
	})
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", store)
	}

	store, err = NewFromConfig(ctx, config.SessionConfig{Backend: config.SessionBackendMemory})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", store)
	}

	if _, err := NewFromConfig(ctx, config.SessionConfig{Backend: "bolt"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
