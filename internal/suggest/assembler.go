package suggest

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"startpage/internal/metrics"
	"startpage/internal/models"
	"startpage/internal/resolver"
)

// DefaultLimit is the number of suggestions shown under the search box.
const DefaultLimit = 4

// ErrStale is returned by SuggestFor when the client typed something else
// while the suggestions were being fetched.
var ErrStale = errors.New("suggestions are stale")

// Assembler combines static and remote suggestions.
type Assembler struct {
	dir     resolver.Directory
	source  Source
	limit   int
	config  func() resolver.Config
	tracker *Tracker
	logger  *slog.Logger
}

// Options configures an Assembler.
type Options struct {
	// Source may be nil to disable remote suggestions.
	Source Source
	Limit  int
	// Config returns the resolver configuration in effect for each call.
	Config  func() resolver.Config
	Tracker *Tracker
	Logger  *slog.Logger
}

// NewAssembler creates an Assembler reading static suggestions from dir.
func NewAssembler(dir resolver.Directory, opts Options) *Assembler {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Config == nil {
		opts.Config = resolver.DefaultConfig
	}
	if opts.Tracker == nil {
		opts.Tracker = NewTracker(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Assembler{
		dir:     dir,
		source:  opts.Source,
		limit:   opts.Limit,
		config:  opts.Config,
		tracker: opts.Tracker,
		logger:  opts.Logger,
	}
}

// Limit returns the maximum number of suggestions returned.
func (a *Assembler) Limit() int {
	return a.limit
}

// Suggest returns up to Limit suggestions for r: the matched shortcut's
// static list first, then remote completions for the search text. Remote
// completions are prefixed with key and delimiter when the query was split,
// so picking one resolves back into the same shortcut. A failing source
// leaves only the static suggestions.
func (a *Assembler) Suggest(ctx context.Context, r models.Resolved) []string {
	out := []string{}
	if r.Key != "" {
		if sc, ok := a.dir.Get(r.Key); ok {
			out = append(out, sc.Suggestions...)
		}
	}

	if r.Search != "" && len(out) < a.limit && a.source != nil {
		phrases, err := a.source.Fetch(ctx, r.Search)
		if err != nil {
			a.logger.Warn("suggest: fetch failed", slog.String("query", r.Search), slog.String("error", err.Error()))
		}

		lowered := strings.ToLower(r.Search)
		for _, p := range phrases {
			if p == lowered {
				continue
			}
			if r.SplitBy != "" {
				p = r.Key + r.SplitBy + p
			}
			out = append(out, p)
		}
	}

	if len(out) > a.limit {
		out = out[:a.limit]
	}
	return out
}

// SuggestFor resolves input for client and assembles its suggestions. If the
// client's latest input resolves to a different query by the time the
// suggestions are ready, they are dropped and ErrStale is returned.
func (a *Assembler) SuggestFor(ctx context.Context, client, input string) (models.Resolved, []string, error) {
	a.tracker.Record(client, input)

	cfg := a.config()
	r, err := resolver.Resolve(input, a.dir, cfg)
	if err != nil {
		return models.Resolved{}, nil, err
	}

	suggestions := a.Suggest(ctx, r)

	if latest, ok := a.tracker.Latest(client); ok && latest != input {
		current, err := resolver.Resolve(latest, a.dir, cfg)
		if err != nil || current.Query != r.Query {
			metrics.RecordSuggestionFetch(metrics.OutcomeStale)
			return r, nil, ErrStale
		}
	}
	return r, suggestions, nil
}
