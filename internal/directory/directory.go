// Package directory holds the shortcut directory: an ordered set of keyed
// shortcuts built from defaults and user edits, persisted after every change.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"startpage/internal/models"
)

type shortcutMap = orderedmap.OrderedMap[string, models.Shortcut]

// Store is safe for concurrent use. Mutations run one at a time against a
// copy of the current snapshot; the copy replaces the snapshot only after it
// has been saved.
type Store struct {
	writeMu sync.Mutex

	mu      sync.RWMutex
	entries *shortcutMap

	defaults  []models.ShortcutEntry
	persister Persister
	logger    *slog.Logger
}

// New loads the saved directory, falling back to defaults when nothing has
// been saved yet. A saved snapshot replaces the defaults entirely.
func New(ctx context.Context, p Persister, defaults []models.ShortcutEntry, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		defaults:  cloneEntries(defaults),
		persister: p,
		logger:    logger,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the shortcut stored under key.
func (s *Store) Get(key string) (models.Shortcut, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.entries.Get(key)
	if !ok {
		return models.Shortcut{}, false
	}
	return sc.Clone(), true
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries.Get(key)
	return ok
}

// Len returns the number of shortcuts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.entries.Len()
}

// Entries returns every shortcut in directory order.
func (s *Store) Entries() []models.ShortcutEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return toEntries(s.entries)
}

// Displayable returns the shortcuts that have both a name and a URL, in
// directory order. These are the ones shown on the start page grid.
func (s *Store) Displayable() []models.ShortcutEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ShortcutEntry
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Displayable() {
			out = append(out, models.ShortcutEntry{Key: pair.Key, Shortcut: pair.Value.Clone()})
		}
	}
	return out
}

// Defaults returns the built-in shortcut set the store was created with.
func (s *Store) Defaults() []models.ShortcutEntry {
	return cloneEntries(s.defaults)
}

// Set stores sc under key, replacing any existing shortcut in place. New keys
// are appended.
func (s *Store) Set(ctx context.Context, key string, sc models.Shortcut) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.mutate(ctx, "set", func(m *shortcutMap) (*shortcutMap, error) {
		m.Set(key, sc.Clone())
		return m, nil
	})
}

// Add stores a new shortcut. Replacing an existing key requires overwrite.
func (s *Store) Add(ctx context.Context, key string, sc models.Shortcut, overwrite bool) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.mutate(ctx, "add", func(m *shortcutMap) (*shortcutMap, error) {
		if _, exists := m.Get(key); exists && !overwrite {
			return nil, fmt.Errorf("%w: %s", ErrKeyExists, key)
		}
		m.Set(key, sc.Clone())
		return m, nil
	})
}

// Edit replaces the shortcut under key and optionally moves it to newKey.
// A renamed shortcut keeps its position. Renaming onto another existing
// key requires overwrite; that key's entry is dropped.
func (s *Store) Edit(ctx context.Context, key, newKey string, sc models.Shortcut, overwrite bool) error {
	if newKey == "" {
		newKey = key
	}
	return s.mutate(ctx, "edit", func(m *shortcutMap) (*shortcutMap, error) {
		if _, ok := m.Get(key); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		if newKey == key {
			m.Set(key, sc.Clone())
			return m, nil
		}
		if _, exists := m.Get(newKey); exists && !overwrite {
			return nil, fmt.Errorf("%w: %s", ErrKeyExists, newKey)
		}

		renamed := orderedmap.New[string, models.Shortcut](m.Len())
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			switch pair.Key {
			case key:
				renamed.Set(newKey, sc.Clone())
			case newKey:
			default:
				renamed.Set(pair.Key, pair.Value)
			}
		}
		return renamed, nil
	})
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.mutate(ctx, "delete", func(m *shortcutMap) (*shortcutMap, error) {
		if _, ok := m.Delete(key); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return m, nil
	})
}

// Clear removes every shortcut.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", func(*shortcutMap) (*shortcutMap, error) {
		return orderedmap.New[string, models.Shortcut](), nil
	})
}

// Reset restores the built-in shortcuts and saves them.
func (s *Store) Reset(ctx context.Context) error {
	return s.mutate(ctx, "reset", func(*shortcutMap) (*shortcutMap, error) {
		return fromEntries(s.defaults), nil
	})
}

// Reload replaces the in-memory directory with what the persister holds.
// On a load error the current directory is kept.
func (s *Store) Reload(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, found, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		entries = s.defaults
	}
	next := fromEntries(entries)

	s.mu.Lock()
	s.entries = next
	s.mu.Unlock()

	s.logger.Debug("directory: loaded", slog.Int("shortcuts", next.Len()), slog.Bool("saved", found))
	return nil
}

// mutate hands fn a private copy of the directory and installs whatever map
// fn returns once it has been saved.
func (s *Store) mutate(ctx context.Context, op string, fn func(m *shortcutMap) (*shortcutMap, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	working := fromEntries(toEntries(s.entries))
	s.mu.RUnlock()

	next, err := fn(working)
	if err != nil {
		return err
	}
	if err := s.persister.Save(ctx, toEntries(next)); err != nil {
		s.logger.Error("directory: save failed", slog.String("op", op), slog.String("error", err.Error()))
		return err
	}

	s.mu.Lock()
	s.entries = next
	s.mu.Unlock()

	s.logger.Info("directory: updated", slog.String("op", op), slog.Int("shortcuts", next.Len()))
	return nil
}

func fromEntries(entries []models.ShortcutEntry) *shortcutMap {
	m := orderedmap.New[string, models.Shortcut](len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Shortcut.Clone())
	}
	return m
}

func toEntries(m *shortcutMap) []models.ShortcutEntry {
	out := make([]models.ShortcutEntry, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, models.ShortcutEntry{Key: pair.Key, Shortcut: pair.Value.Clone()})
	}
	return out
}

func cloneEntries(entries []models.ShortcutEntry) []models.ShortcutEntry {
	out := make([]models.ShortcutEntry, len(entries))
	for i, e := range entries {
		out[i] = models.ShortcutEntry{Key: e.Key, Shortcut: e.Shortcut.Clone()}
	}
	return out
}
