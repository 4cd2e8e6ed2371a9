package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"startpage/internal/models"
	"startpage/internal/validation"
)

// Directory lists the shortcuts to check.
type Directory interface {
	Entries() []models.ShortcutEntry
}

// ResultStore persists check results across restarts. db.DB satisfies it.
type ResultStore interface {
	SaveLinkHealth(ctx context.Context, h models.LinkHealth) error
	ListLinkHealth(ctx context.Context) ([]models.LinkHealth, error)
	DeleteLinkHealthExcept(ctx context.Context, keys []string) error
}

// Notifier is told about shortcuts that became unhealthy.
type Notifier interface {
	NotifyHealthCheckFailures(ctx context.Context, results []models.LinkHealth)
}

// Options configures a LinkChecker. Store and Notifier are optional.
type Options struct {
	Interval time.Duration
	MaxAge   time.Duration
	Delay    time.Duration // pause between two requests
	Store    ResultStore
	Notifier Notifier
	Logger   *slog.Logger
}

// LinkChecker periodically checks that shortcut URLs still respond.
type LinkChecker struct {
	dir    Directory
	opts   Options
	logger *slog.Logger
	client *http.Client

	// guard rejects URLs that must not be fetched.
	guard func(url string) (bool, string)

	mu      sync.RWMutex
	results map[string]models.LinkHealth
}

// NewLinkChecker creates a new link checker.
func NewLinkChecker(dir Directory, opts Options) *LinkChecker {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 24 * time.Hour
	}
	return &LinkChecker{
		dir:    dir,
		opts:   opts,
		logger: opts.Logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		guard:   validation.ValidateURLForHealthCheck,
		results: make(map[string]models.LinkHealth),
	}
}

// Start runs a check immediately and then every interval until ctx is done.
func (h *LinkChecker) Start(ctx context.Context) {
	h.logger.Info("jobs: link checker started",
		slog.Duration("interval", h.opts.Interval),
		slog.Duration("max_age", h.opts.MaxAge))

	h.loadResults(ctx)
	h.CheckAll(ctx)

	ticker := time.NewTicker(h.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("jobs: link checker stopped")
			return
		case <-ticker.C:
			h.CheckAll(ctx)
		}
	}
}

// Results returns the latest result per shortcut, sorted by key.
func (h *LinkChecker) Results() []models.LinkHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.LinkHealth, 0, len(h.results))
	for _, r := range h.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Result returns the latest result for key.
func (h *LinkChecker) Result(key string) (models.LinkHealth, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.results[key]
	return r, ok
}

func (h *LinkChecker) loadResults(ctx context.Context) {
	if h.opts.Store == nil {
		return
	}
	saved, err := h.opts.Store.ListLinkHealth(ctx)
	if err != nil {
		h.logger.Warn("jobs: load link health failed", slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	for _, r := range saved {
		h.results[r.Key] = r
	}
	h.mu.Unlock()
}

// CheckAll checks every shortcut URL whose last result is missing, stale or
// for a different URL. Results for removed shortcuts are dropped.
func (h *LinkChecker) CheckAll(ctx context.Context) {
	entries := h.dir.Entries()
	h.prune(ctx, entries)

	var due []models.ShortcutEntry
	for _, e := range entries {
		if e.IsAlias() || e.URL == "" {
			continue
		}
		if r, ok := h.Result(e.Key); ok && r.URL == e.URL && !r.IsStale(h.opts.MaxAge) {
			continue
		}
		due = append(due, e)
	}

	if len(due) == 0 {
		return
	}

	h.logger.Info("jobs: checking links", slog.Int("count", len(due)))

	var failed []models.LinkHealth
	for i, e := range due {
		if i > 0 && !h.pause(ctx) {
			return
		}
		if ctx.Err() != nil {
			return
		}

		status, errorMsg := h.checkURL(ctx, e.URL)
		r := models.LinkHealth{
			Key:       e.Key,
			URL:       e.URL,
			Status:    status,
			Error:     errorMsg,
			CheckedAt: time.Now().UTC(),
		}

		prev, had := h.Result(e.Key)
		h.mu.Lock()
		h.results[e.Key] = r
		h.mu.Unlock()

		if h.opts.Store != nil {
			if err := h.opts.Store.SaveLinkHealth(ctx, r); err != nil {
				h.logger.Warn("jobs: save link health failed", slog.String("key", e.Key), slog.String("error", err.Error()))
			}
		}

		if status == models.HealthUnhealthy && (!had || prev.Status != models.HealthUnhealthy || prev.URL != r.URL) {
			failed = append(failed, r)
		}
	}

	if len(failed) > 0 && h.opts.Notifier != nil {
		h.opts.Notifier.NotifyHealthCheckFailures(ctx, failed)
	}
}

func (h *LinkChecker) prune(ctx context.Context, entries []models.ShortcutEntry) {
	keep := make(map[string]bool, len(entries))
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keep[e.Key] = true
		keys = append(keys, e.Key)
	}

	h.mu.Lock()
	for k := range h.results {
		if !keep[k] {
			delete(h.results, k)
		}
	}
	h.mu.Unlock()

	if h.opts.Store != nil {
		if err := h.opts.Store.DeleteLinkHealthExcept(ctx, keys); err != nil {
			h.logger.Warn("jobs: prune link health failed", slog.String("error", err.Error()))
		}
	}
}

// pause waits Delay and reports false if ctx ended first.
func (h *LinkChecker) pause(ctx context.Context) bool {
	if h.opts.Delay <= 0 {
		return true
	}
	t := time.NewTimer(h.opts.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// checkURL performs a HEAD request to check if a URL responds.
// URLs are validated before the request to prevent SSRF.
func (h *LinkChecker) checkURL(ctx context.Context, url string) (status, errorMsg string) {
	if valid, msg := h.guard(url); !valid {
		return models.HealthUnhealthy, msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return models.HealthUnhealthy, "invalid URL: " + err.Error()
	}
	req.Header.Set("User-Agent", "Startpage-LinkChecker/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return models.HealthUnknown, "check cancelled"
		}
		return models.HealthUnhealthy, "connection failed: " + err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return models.HealthUnhealthy, resp.Status
	}
	// Any other response means the site is reachable; many sites answer HEAD
	// with 403 or 405.
	return models.HealthHealthy, ""
}
