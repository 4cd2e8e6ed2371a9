package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"startpage/internal/metrics"
	"startpage/internal/storage"
)

const cacheKeyPrefix = "suggest:"

// Cached wraps a Source with a TTL cache in a storage backend. Concurrent
// lookups for the same query share one upstream request.
type Cached struct {
	source  Source
	backend storage.Backend
	ttl     time.Duration
	logger  *slog.Logger
	group   singleflight.Group
}

// NewCached creates a caching source.
func NewCached(source Source, backend storage.Backend, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{source: source, backend: backend, ttl: ttl, logger: logger}
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return cacheKeyPrefix + hex.EncodeToString(sum[:16])
}

// Fetch returns cached phrases or asks the wrapped source.
func (c *Cached) Fetch(ctx context.Context, query string) ([]string, error) {
	key := cacheKey(query)

	if data, err := c.backend.Get(ctx, key); err != nil {
		c.logger.Warn("suggest: cache read failed", slog.String("error", err.Error()))
	} else if data != nil {
		var phrases []string
		if err := json.Unmarshal(data, &phrases); err == nil {
			metrics.RecordSuggestionFetch(metrics.OutcomeHit)
			return phrases, nil
		}
	}

	// Detached so one caller giving up does not fail the others sharing it.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		phrases, err := c.source.Fetch(shared, query)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(phrases); err == nil {
			if err := c.backend.Set(shared, key, data, c.ttl); err != nil {
				c.logger.Warn("suggest: cache write failed", slog.String("error", err.Error()))
			}
		}
		return phrases, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return append([]string(nil), res.Val.([]string)...), nil
	}
}
