package storage

import (
	"context"
	"testing"

	"startpage/internal/testutil"
)

func TestPostgres(t *testing.T) {
	p, err := NewPostgres(context.Background(), testutil.DatabaseURL(t))
	if err != nil {
		t.Fatalf("NewPostgres() error = %v", err)
	}
	defer p.Close()

	testutil.Truncate(t, p.DB().Pool, "kv_store")
	testBackend(t, p)
}
