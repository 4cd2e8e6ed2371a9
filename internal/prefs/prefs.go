// Package prefs stores the start page preferences: theme, tab behavior,
// search engine and the first-visit flags.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"startpage/internal/models"
	"startpage/internal/resolver"
	"startpage/internal/storage"
	"startpage/internal/validation"
)

// StorageKey is where preferences live in the backend.
const StorageKey = "startpage:preferences"

var ErrUnknownEngine = errors.New("unknown search engine")

// Engine is a selectable default search engine.
type Engine struct {
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label" yaml:"label"`
	Template string `json:"template" yaml:"template"`
}

// DefaultEngines returns the built-in search engines.
func DefaultEngines() []Engine {
	return []Engine{
		{Name: "google", Label: "Google", Template: "https://www.google.com/search?q={}"},
		{Name: "duckduckgo", Label: "DuckDuckGo", Template: "https://duckduckgo.com/?q={}"},
	}
}

// Defaults returns the preferences restored by Reset.
func Defaults() models.Preferences {
	return models.Preferences{
		Theme:        models.DefaultTheme,
		TabBehavior:  models.TabCurrent,
		SearchEngine: models.DefaultSearchEngine,
	}
}

// Options configures a Store.
type Options struct {
	Defaults models.Preferences
	Engines  []Engine
	// Resolver supplies the delimiters; its default template is replaced by
	// the selected engine's.
	Resolver resolver.Config
}

// Store is safe for concurrent use.
type Store struct {
	writeMu sync.Mutex

	mu      sync.RWMutex
	current models.Preferences

	backend  storage.Backend
	defaults models.Preferences
	engines  []Engine
	base     resolver.Config
	logger   *slog.Logger
}

// New loads saved preferences. Fields missing from the saved copy take their
// default values.
func New(ctx context.Context, backend storage.Backend, opts Options, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Engines) == 0 {
		opts.Engines = DefaultEngines()
	}
	if opts.Defaults == (models.Preferences{}) {
		opts.Defaults = Defaults()
	}

	s := &Store{
		backend:  backend,
		defaults: opts.Defaults,
		engines:  append([]Engine(nil), opts.Engines...),
		base:     opts.Resolver,
		logger:   logger,
	}
	if _, ok := s.engine(s.defaults.SearchEngine); !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownEngine, s.defaults.SearchEngine)
	}

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.current = current
	return s, nil
}

func (s *Store) load(ctx context.Context) (models.Preferences, error) {
	p := s.defaults

	data, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		return p, fmt.Errorf("failed to load preferences: %w", err)
	}
	if data == nil {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("prefs: ignoring malformed preferences", slog.String("error", err.Error()))
		return s.defaults, nil
	}
	if _, ok := s.engine(p.SearchEngine); !ok {
		p.SearchEngine = s.defaults.SearchEngine
	}
	return p, nil
}

// Get returns the current preferences.
func (s *Store) Get() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Update applies patch, validates and saves the result.
func (s *Store) Update(ctx context.Context, patch models.PreferencesPatch) (models.Preferences, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Get().Apply(patch)
	if err := validation.ValidatePreferences(next, s.EngineNames()); err != nil {
		return models.Preferences{}, err
	}
	if err := s.save(ctx, next); err != nil {
		return models.Preferences{}, err
	}
	return next, nil
}

// Reset restores and saves the stock preferences (dark, current tab,
// google), not the deployment defaults. An engine list without the stock
// engine falls back to the deployment's. The first-visit flags are kept so
// the help overlay is not shown again.
func (s *Store) Reset(ctx context.Context) (models.Preferences, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Get()
	next := Defaults()
	if _, ok := s.engine(next.SearchEngine); !ok {
		next.SearchEngine = s.defaults.SearchEngine
	}
	next.HasVisitedBefore = cur.HasVisitedBefore
	next.HasSeenHelpOnly = cur.HasSeenHelpOnly
	if err := s.save(ctx, next); err != nil {
		return models.Preferences{}, err
	}
	return next, nil
}

func (s *Store) save(ctx context.Context, p models.Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := s.backend.Set(ctx, StorageKey, data, 0); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	s.logger.Info("prefs: updated", slog.String("theme", p.Theme), slog.String("tab", p.TabBehavior), slog.String("engine", p.SearchEngine))
	return nil
}

// Engines returns the selectable search engines.
func (s *Store) Engines() []Engine {
	return append([]Engine(nil), s.engines...)
}

// EngineNames returns the engine names in order.
func (s *Store) EngineNames() []string {
	names := make([]string, len(s.engines))
	for i, e := range s.engines {
		names[i] = e.Name
	}
	return names
}

func (s *Store) engine(name string) (Engine, bool) {
	for _, e := range s.engines {
		if e.Name == name {
			return e, true
		}
	}
	return Engine{}, false
}

// ResolverConfig returns the resolver configuration for the selected engine.
func (s *Store) ResolverConfig() resolver.Config {
	cfg := s.base
	if e, ok := s.engine(s.Get().SearchEngine); ok {
		cfg.DefaultSearchTemplate = e.Template
	}
	return cfg
}
