// internal/session/session_test.go
package session

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "session.json")
	store := NewStore(path)

	if err := store.Save(Session{UserID: "u-9", Email: "reader@example.com", Role: "user"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.UserID != "u-9" || got.Email != "reader@example.com" || got.Role != "user" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("Save should stamp CreatedAt")
	}
}

func TestStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestStoreClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(path)

	if err := store.Save(Session{UserID: "u-1", Role: "admin"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after Clear, got %v", err)
	}

	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role string
		want bool
	}{
		{role: "admin", want: true},
		{role: " Admin ", want: true},
		{role: "user", want: false},
		{role: "", want: false},
	}

	for _, tt := range tests {
		if got := (Session{Role: tt.role}).IsAdmin(); got != tt.want {
			t.Fatalf("IsAdmin(%q)=%v want %v", tt.role, got, tt.want)
		}
	}
}
