package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/template/html/v3"

	"startpage/internal/config"
	"startpage/internal/directory"
	"startpage/internal/models"
	"startpage/internal/prefs"
	"startpage/internal/resolver"
	"startpage/internal/storage"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:     "https://start.example.com/",
		SiteTitle:   "Start",
		SiteTagline: "Type something",
	}
}

func testShortcuts() []models.ShortcutEntry {
	return []models.ShortcutEntry{
		{Key: "g", Shortcut: models.Shortcut{Name: "Gmail", URL: "https://mail.google.com"}},
		{Key: "r", Shortcut: models.Shortcut{Name: "Reddit", URL: "https://reddit.com"}},
		{Key: "hidden", Shortcut: models.Shortcut{URL: "https://hidden.example.com"}},
		{Key: "a", Shortcut: models.Shortcut{Command: "b"}},
		{Key: "b", Shortcut: models.Shortcut{Command: "a"}},
	}
}

func newStores(t *testing.T) (*directory.Store, *prefs.Store) {
	t.Helper()
	ctx := context.Background()
	backend := storage.NewMemory()
	dir, err := directory.New(ctx, directory.NewKVPersister(backend), testShortcuts(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	p, err := prefs.New(ctx, backend, prefs.Options{Resolver: resolver.DefaultConfig()}, testLogger)
	if err != nil {
		t.Fatal(err)
	}
	return dir, p
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		Views:       html.New("../../views", ".html"),
		ViewsLayout: "layouts/main",
	})
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestGo(t *testing.T) {
	dir, p := newStores(t)
	h := NewRedirectHandler(dir, p, testConfig())
	app := newApp()
	app.Get("/go", h.Go)
	app.Get("/search", h.Go)

	tests := []struct {
		target string
		want   string
	}{
		{"/go?q=g", "https://mail.google.com"},
		{"/go?q=r/r/golang", "https://reddit.com/r/golang"},
		{"/search?q=example.com", "https://example.com"},
		{"/search?q=hello%20world", "https://www.google.com/search?q=hello%20world"},
		{"/go?q=", "/"},
		{"/go?q=%20%20", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, _ := get(t, app, tt.target)
			if resp.StatusCode < 300 || resp.StatusCode > 399 {
				t.Fatalf("status = %d, want a redirect", resp.StatusCode)
			}
			if got := resp.Header.Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGo_AliasCycle(t *testing.T) {
	dir, p := newStores(t)
	h := NewRedirectHandler(dir, p, testConfig())
	app := newApp()
	app.Get("/go", h.Go)

	resp, body := get(t, app, "/go?q=a")
	if resp.StatusCode != fiber.StatusLoopDetected {
		t.Fatalf("status = %d, want 508", resp.StatusCode)
	}
	if !strings.Contains(body, "a → b → a") {
		t.Errorf("body does not show the loop: %s", body)
	}
}

func TestFeedbackRedirect(t *testing.T) {
	dir, p := newStores(t)
	cfg := testConfig()
	h := NewRedirectHandler(dir, p, cfg)
	app := newApp()
	app.Get("/feedback", h.Feedback)

	if resp, _ := get(t, app, "/feedback"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("no form: status = %d, want 404", resp.StatusCode)
	}

	cfg.FeedbackFormURL = "https://forms.example.com/start"
	resp, _ := get(t, app, "/feedback")
	if got := resp.Header.Get("Location"); got != cfg.FeedbackFormURL {
		t.Errorf("Location = %q", got)
	}
}

func TestIndex_FirstVisit(t *testing.T) {
	dir, p := newStores(t)
	h, err := NewPageHandler(dir, p, testConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	app := newApp()
	app.Get("/", h.Index)

	resp, body := get(t, app, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{"Gmail", "Reddit", `data-key="g"`, `<dialog id="help" open>`, "<table>"} {
		if !strings.Contains(body, want) {
			t.Errorf("first visit page missing %q", want)
		}
	}
	if strings.Contains(body, "hidden.example.com") {
		t.Error("shortcut without name rendered in grid")
	}
	if got := p.Get(); !got.HasVisitedBefore || !got.HasSeenHelpOnly {
		t.Errorf("visit not recorded: %+v", got)
	}

	_, body = get(t, app, "/")
	if strings.Contains(body, `<dialog id="help" open>`) {
		t.Error("help shown again on second visit")
	}
	if !strings.Contains(body, `class="pulse"`) {
		t.Error("settings button not highlighted after help")
	}
}

func TestIndex_NewTab(t *testing.T) {
	dir, p := newStores(t)
	tab := models.TabNew
	if _, err := p.Update(context.Background(), models.PreferencesPatch{TabBehavior: &tab}); err != nil {
		t.Fatal(err)
	}
	h, err := NewPageHandler(dir, p, testConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	app := newApp()
	app.Get("/", h.Index)

	_, body := get(t, app, "/")
	if !strings.Contains(body, `target="_blank"`) {
		t.Error("links do not open in a new tab")
	}
}

func TestHelpAndOpenSearch(t *testing.T) {
	dir, p := newStores(t)
	h, err := NewPageHandler(dir, p, testConfig(), testLogger)
	if err != nil {
		t.Fatal(err)
	}
	app := newApp()
	app.Get("/help", h.Help)
	app.Get("/opensearch.xml", h.OpenSearch)

	resp, body := get(t, app, "/help")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "<h1>Using the start page</h1>") {
		t.Errorf("help = %d: %s", resp.StatusCode, body)
	}

	resp, body = get(t, app, "/opensearch.xml")
	if ct := resp.Header.Get("Content-Type"); ct != "application/opensearchdescription+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, `template="https://start.example.com/go?q={searchTerms}"`) {
		t.Errorf("opensearch body = %s", body)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestProbes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ready", nil, http.StatusOK},
		{"storage down", errors.New("down"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewProbeHandler(fakePinger{err: tt.err})
			app := fiber.New()
			app.Get("/healthz", h.Liveness)
			app.Get("/readyz", h.Readiness)

			if resp, _ := get(t, app, "/healthz"); resp.StatusCode != http.StatusOK {
				t.Errorf("liveness = %d", resp.StatusCode)
			}
			if resp, _ := get(t, app, "/readyz"); resp.StatusCode != tt.want {
				t.Errorf("readiness = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"/api/shortcuts":       "/api/shortcuts",
		"/?q=x":                "/?q=x",
		"https://evil.example": "/",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"javascript:alert(1)":  "/",
	}
	for in, want := range tests {
		if got := safeRedirect(in); got != want {
			t.Errorf("safeRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateState(t *testing.T) {
	a, err := generateState()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := generateState()
	if a == "" || a == b {
		t.Errorf("states %q and %q", a, b)
	}
}
