package prefs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"startpage/internal/models"
	"startpage/internal/resolver"
	"startpage/internal/storage"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func ptr[T any](v T) *T { return &v }

type noShortcuts struct{}

func (noShortcuts) Get(string) (models.Shortcut, bool) { return models.Shortcut{}, false }

func newTestStore(t *testing.T, backend storage.Backend) *Store {
	t.Helper()
	s, err := New(context.Background(), backend, Options{Resolver: resolver.DefaultConfig()}, testLogger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())

	if got := s.Get(); got != Defaults() {
		t.Errorf("Get() = %+v, want %+v", got, Defaults())
	}
	if !s.Get().IsFirstVisit() {
		t.Error("fresh preferences should be a first visit")
	}
}

func TestNew_PartialSavedPreferences(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	backend.Set(ctx, StorageKey, []byte(`{"theme":"light","hasVisitedBefore":true}`), 0)

	got := newTestStore(t, backend).Get()
	want := models.Preferences{Theme: "light", TabBehavior: models.TabCurrent, SearchEngine: "google", HasVisitedBefore: true}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestNew_MalformedOrUnknownEngine(t *testing.T) {
	ctx := context.Background()

	backend := storage.NewMemory()
	backend.Set(ctx, StorageKey, []byte(`{"theme":`), 0)
	if got := newTestStore(t, backend).Get(); got != Defaults() {
		t.Errorf("malformed preferences: Get() = %+v, want defaults", got)
	}

	backend.Set(ctx, StorageKey, []byte(`{"searchEngine":"altavista"}`), 0)
	if got := newTestStore(t, backend).Get().SearchEngine; got != "google" {
		t.Errorf("unknown engine: SearchEngine = %q, want google", got)
	}
}

func TestNew_UnknownDefaultEngine(t *testing.T) {
	opts := Options{Defaults: models.Preferences{Theme: "dark", TabBehavior: models.TabNew, SearchEngine: "bing"}}
	if _, err := New(context.Background(), storage.NewMemory(), opts, testLogger); err == nil {
		t.Error("New() with an unknown default engine should fail")
	}
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	s := newTestStore(t, backend)

	got, err := s.Update(ctx, models.PreferencesPatch{
		TabBehavior:  ptr(models.TabNew),
		SearchEngine: ptr("duckduckgo"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !got.OpenInNewTab() || got.SearchEngine != "duckduckgo" || got.Theme != models.DefaultTheme {
		t.Errorf("Update() = %+v", got)
	}

	if reloaded := newTestStore(t, backend).Get(); reloaded != got {
		t.Errorf("saved preferences = %+v, want %+v", reloaded, got)
	}

	if _, err := s.Update(ctx, models.PreferencesPatch{Theme: ptr("neon")}); err == nil {
		t.Error("Update() with an invalid theme should fail")
	}
	if s.Get().Theme != models.DefaultTheme {
		t.Error("rejected Update() should leave preferences unchanged")
	}
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())

	s.Update(ctx, models.PreferencesPatch{
		Theme:            ptr("light"),
		TabBehavior:      ptr(models.TabNew),
		SearchEngine:     ptr("duckduckgo"),
		HasVisitedBefore: ptr(true),
	})

	got, err := s.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	want := Defaults()
	want.HasVisitedBefore = true
	if got != want {
		t.Errorf("Reset() = %+v, want %+v", got, want)
	}
}

func TestStore_Reset_StockPreferences(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		engines    []Engine
		wantEngine string
	}{
		{"stock engines", nil, "google"},
		{"no google configured", []Engine{
			{Name: "bing", Label: "Bing", Template: "https://www.bing.com/search?q={}"},
			{Name: "duckduckgo", Label: "DuckDuckGo", Template: "https://duckduckgo.com/?q={}"},
		}, "duckduckgo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(ctx, storage.NewMemory(), Options{
				Defaults: models.Preferences{
					Theme:        models.DefaultTheme,
					TabBehavior:  models.TabNew,
					SearchEngine: "duckduckgo",
				},
				Engines:  tt.engines,
				Resolver: resolver.DefaultConfig(),
			}, testLogger)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			s.Update(ctx, models.PreferencesPatch{Theme: ptr("light"), HasSeenHelpOnly: ptr(true)})

			got, err := s.Reset(ctx)
			if err != nil {
				t.Fatalf("Reset() error = %v", err)
			}
			want := models.Preferences{
				Theme:           models.DefaultTheme,
				TabBehavior:     models.TabCurrent,
				SearchEngine:    tt.wantEngine,
				HasSeenHelpOnly: true,
			}
			if got != want {
				t.Errorf("Reset() = %+v, want %+v", got, want)
			}
			if s.Get() != want {
				t.Errorf("Get() after Reset() = %+v", s.Get())
			}
		})
	}
}

func TestStore_ResolverConfig(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())

	if got := s.ResolverConfig().DefaultSearchTemplate; got != "https://www.google.com/search?q={}" {
		t.Errorf("DefaultSearchTemplate = %q, want google", got)
	}

	s.Update(ctx, models.PreferencesPatch{SearchEngine: ptr("duckduckgo")})
	cfg := s.ResolverConfig()
	if cfg.DefaultSearchTemplate != "https://duckduckgo.com/?q={}" {
		t.Errorf("DefaultSearchTemplate = %q, want duckduckgo", cfg.DefaultSearchTemplate)
	}
	if cfg.PathDelimiter != "/" || cfg.SearchDelimiter != " " {
		t.Errorf("delimiters changed: %+v", cfg)
	}

	got, _ := resolver.Resolve("cat pictures", noShortcuts{}, cfg)
	if got.URL != "https://duckduckgo.com/?q=cat%20pictures" {
		t.Errorf("Resolve() URL = %q", got.URL)
	}
}
