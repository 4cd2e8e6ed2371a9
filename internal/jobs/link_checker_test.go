package jobs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"startpage/internal/models"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type staticDir []models.ShortcutEntry

func (d staticDir) Entries() []models.ShortcutEntry { return d }

type memStore struct {
	mu     sync.Mutex
	saved  map[string]models.LinkHealth
	kept   []string
	pruned int
}

func newMemStore(initial ...models.LinkHealth) *memStore {
	s := &memStore{saved: make(map[string]models.LinkHealth)}
	for _, r := range initial {
		s.saved[r.Key] = r
	}
	return s
}

func (s *memStore) SaveLinkHealth(_ context.Context, h models.LinkHealth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[h.Key] = h
	return nil
}

func (s *memStore) ListLinkHealth(_ context.Context) ([]models.LinkHealth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LinkHealth
	for _, r := range s.saved {
		out = append(out, r)
	}
	return out, nil
}

func (s *memStore) DeleteLinkHealthExcept(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kept = keys
	s.pruned++
	return nil
}

type recordingNotifier struct {
	calls [][]models.LinkHealth
}

func (n *recordingNotifier) NotifyHealthCheckFailures(_ context.Context, results []models.LinkHealth) {
	n.calls = append(n.calls, results)
}

func allowAll(string) (bool, string) { return true, "" }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			w.WriteHeader(http.StatusBadGateway)
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLinkChecker_CheckAll(t *testing.T) {
	srv := newTestServer(t)
	dir := staticDir{
		{Key: "ok", Shortcut: models.Shortcut{Name: "OK", URL: srv.URL + "/"}},
		{Key: "down", Shortcut: models.Shortcut{Name: "Down", URL: srv.URL + "/down"}},
		{Key: "head", Shortcut: models.Shortcut{Name: "Head", URL: srv.URL + "/forbidden"}},
		{Key: "alias", Shortcut: models.Shortcut{Command: "ok"}},
	}
	store := newMemStore()
	notifier := &recordingNotifier{}

	c := NewLinkChecker(dir, Options{Store: store, Notifier: notifier, Logger: discard})
	c.guard = allowAll
	c.CheckAll(context.Background())

	results := c.Results()
	if len(results) != 3 {
		t.Fatalf("Results() = %d entries, want 3 (alias skipped)", len(results))
	}
	want := map[string]string{
		"ok":   models.HealthHealthy,
		"down": models.HealthUnhealthy,
		"head": models.HealthHealthy,
	}
	for _, r := range results {
		if r.Status != want[r.Key] {
			t.Errorf("%s status = %q, want %q", r.Key, r.Status, want[r.Key])
		}
		if r.CheckedAt.IsZero() {
			t.Errorf("%s CheckedAt not set", r.Key)
		}
	}
	if results[0].Key != "down" {
		t.Errorf("Results() not sorted: first = %q", results[0].Key)
	}

	if len(store.saved) != 3 {
		t.Errorf("store saved %d results, want 3", len(store.saved))
	}
	if len(notifier.calls) != 1 || len(notifier.calls[0]) != 1 || notifier.calls[0][0].Key != "down" {
		t.Errorf("notifier calls = %+v", notifier.calls)
	}
}

func TestLinkChecker_SkipsFreshResults(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	dir := staticDir{{Key: "a", Shortcut: models.Shortcut{URL: srv.URL}}}
	c := NewLinkChecker(dir, Options{MaxAge: time.Hour, Logger: discard})
	c.guard = allowAll

	c.CheckAll(context.Background())
	c.CheckAll(context.Background())
	if hits != 1 {
		t.Errorf("hits = %d, want 1 (second run fresh)", hits)
	}

	// A changed URL is re-checked even when the old result is fresh.
	dir[0].URL = srv.URL + "/moved"
	c.CheckAll(context.Background())
	if hits != 2 {
		t.Errorf("hits = %d, want 2 after URL change", hits)
	}
}

func TestLinkChecker_NotifiesOnlyOnTransition(t *testing.T) {
	srv := newTestServer(t)
	dir := staticDir{{Key: "down", Shortcut: models.Shortcut{URL: srv.URL + "/down"}}}
	notifier := &recordingNotifier{}

	c := NewLinkChecker(dir, Options{MaxAge: time.Nanosecond, Notifier: notifier, Logger: discard})
	c.guard = allowAll

	c.CheckAll(context.Background())
	time.Sleep(time.Millisecond)
	c.CheckAll(context.Background())

	if len(notifier.calls) != 1 {
		t.Errorf("notifier called %d times, want 1", len(notifier.calls))
	}
}

func TestLinkChecker_PrunesRemovedKeys(t *testing.T) {
	old := models.LinkHealth{Key: "gone", URL: "https://gone.example.com", Status: models.HealthHealthy, CheckedAt: time.Now()}
	store := newMemStore(old)

	c := NewLinkChecker(staticDir{}, Options{Store: store, Logger: discard})
	c.loadResults(context.Background())
	if _, ok := c.Result("gone"); !ok {
		t.Fatal("saved result not loaded")
	}

	c.CheckAll(context.Background())

	if _, ok := c.Result("gone"); ok {
		t.Error("result for removed key kept")
	}
	if store.pruned != 1 || len(store.kept) != 0 {
		t.Errorf("store prune = %d calls, kept %v", store.pruned, store.kept)
	}
}

func TestLinkChecker_GuardRejects(t *testing.T) {
	c := NewLinkChecker(staticDir{}, Options{Logger: discard})
	c.guard = func(string) (bool, string) { return false, "private address" }

	status, msg := c.checkURL(context.Background(), "http://10.0.0.1/")
	if status != models.HealthUnhealthy || msg != "private address" {
		t.Errorf("checkURL() = %q, %q", status, msg)
	}
}

func TestLinkChecker_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewLinkChecker(staticDir{}, Options{Logger: discard})
	c.guard = allowAll

	status, msg := c.checkURL(context.Background(), url)
	if status != models.HealthUnhealthy || msg == "" {
		t.Errorf("checkURL() = %q, %q; want unhealthy with message", status, msg)
	}
}

func TestLinkChecker_StartStops(t *testing.T) {
	c := NewLinkChecker(staticDir{}, Options{Interval: time.Millisecond, Logger: discard})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
