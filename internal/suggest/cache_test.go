package suggest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type countingSource struct {
	calls   atomic.Int32
	phrases []string
	err     error
	gate    chan struct{}
}

func (s *countingSource) Fetch(ctx context.Context, query string) ([]string, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.phrases...), nil
}

func TestCached_HitsCache(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{phrases: []string{"golang", "gopher"}}
	c := NewCached(src, newMemory(t), time.Minute, nil)

	for i := 0; i < 3; i++ {
		got, err := c.Fetch(ctx, "Go")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if diff := cmp.Diff(src.phrases, got); diff != "" {
			t.Fatalf("Fetch() mismatch (-want +got):\n%s", diff)
		}
	}
	if _, err := c.Fetch(ctx, " go "); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if n := src.calls.Load(); n != 1 {
		t.Errorf("source called %d times, want 1", n)
	}
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{err: errors.New("down")}
	c := NewCached(src, newMemory(t), time.Minute, nil)

	for i := 0; i < 2; i++ {
		if _, err := c.Fetch(ctx, "go"); err == nil {
			t.Fatal("Fetch() should fail")
		}
	}
	if n := src.calls.Load(); n != 2 {
		t.Errorf("source called %d times, want 2", n)
	}
}

func TestCached_CollapsesConcurrentFetches(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{phrases: []string{"golang"}, gate: make(chan struct{})}
	c := NewCached(src, newMemory(t), time.Minute, nil)

	var wg sync.WaitGroup
	results := make([][]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Fetch(ctx, "go")
		}(i)
	}

	// Let every caller join the in-flight fetch before releasing it.
	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	for i, r := range results {
		if diff := cmp.Diff([]string{"golang"}, r); diff != "" {
			t.Errorf("caller %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if n := src.calls.Load(); n > 2 {
		t.Errorf("source called %d times, want concurrent calls collapsed", n)
	}
}

func TestCached_CallerCancellation(t *testing.T) {
	src := &countingSource{phrases: []string{"golang"}, gate: make(chan struct{})}
	backend := newMemory(t)
	c := NewCached(src, backend, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, "go")
		done <- err
	}()

	for src.calls.Load() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}

	// The detached fetch still completes and fills the cache.
	close(src.gate)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if data, _ := backend.Get(context.Background(), cacheKey("go")); data != nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("detached fetch did not populate the cache")
}

func TestCacheKey(t *testing.T) {
	if cacheKey("Go") != cacheKey("  go ") {
		t.Error("cache keys should ignore case and surrounding space")
	}
	if cacheKey("go") == cacheKey("golang") {
		t.Error("different queries must not share a cache key")
	}
}
