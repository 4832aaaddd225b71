package kv_test

import (
	"context"
	"errors"
	"testing"

	"spokesperson/internal/kv"
)

// Both backends must satisfy the same contract; badger runs in memory-only
// mode so the test needs no disk.
func backends(t *testing.T) map[string]kv.Store {
	t.Helper()

	b, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}

	stores := map[string]kv.Store{
		"memory": kv.NewMemory(),
		"badger": b,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "user/abc")
			if !errors.Is(err, kv.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := s.Set(ctx, "user/abc", []byte("hello")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := s.Get(ctx, "user/abc")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "hello" {
				t.Fatalf("Get = %q, want %q", got, "hello")
			}

			// Overwrite.
			if err := s.Set(ctx, "user/abc", []byte("world")); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, err = s.Get(ctx, "user/abc")
			if err != nil {
				t.Fatalf("Get after overwrite: %v", err)
			}
			if string(got) != "world" {
				t.Fatalf("Get = %q, want %q", got, "world")
			}

			if err := s.Delete(ctx, "user/abc"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, "user/abc"); !errors.Is(err, kv.ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}

			// Deleting a missing key is not an error.
			if err := s.Delete(ctx, "user/abc"); err != nil {
				t.Fatalf("Delete missing key: %v", err)
			}
		})
	}
}
