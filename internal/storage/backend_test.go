package storage

import (
	"bytes"
	"context"
	"testing"
	"time"
)

// testBackend runs the behaviour every Backend must share.
func testBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		got, err := b.Get(ctx, "startpage:absent")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Errorf("Get() = %q, want nil", got)
		}
	})

	t.Run("set get overwrite delete", func(t *testing.T) {
		key := "startpage:commands"
		if err := b.Set(ctx, key, []byte(`{"n":{"url":"https://www.netflix.com"}}`), 0); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := b.Set(ctx, key, []byte(`{"g":{}}`), 0); err != nil {
			t.Fatalf("Set() overwrite error = %v", err)
		}

		got, err := b.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(got, []byte(`{"g":{}}`)) {
			t.Errorf("Get() = %q, want overwritten value", got)
		}

		if err := b.Delete(ctx, key); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if got, _ := b.Get(ctx, key); got != nil {
			t.Errorf("Get() after Delete() = %q, want nil", got)
		}
		if err := b.Delete(ctx, key); err != nil {
			t.Errorf("Delete() of absent key error = %v", err)
		}
	})

	t.Run("expiry", func(t *testing.T) {
		key := "suggest:expiring"
		if err := b.Set(ctx, key, []byte(`["a"]`), 50*time.Millisecond); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if got, _ := b.Get(ctx, key); got == nil {
			t.Fatal("Get() before expiry = nil")
		}

		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			got, err := b.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got == nil {
				return
			}
			time.Sleep(25 * time.Millisecond)
		}
		t.Error("value did not expire")
	})

	t.Run("ping", func(t *testing.T) {
		if err := b.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}
