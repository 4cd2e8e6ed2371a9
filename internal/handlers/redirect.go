package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"startpage/internal/config"
	"startpage/internal/directory"
	"startpage/internal/metrics"
	"startpage/internal/models"
	"startpage/internal/prefs"
	"startpage/internal/resolver"
)

// RedirectHandler resolves typed queries and redirects the browser.
// It backs both the search form and the browser search engine entry.
type RedirectHandler struct {
	dir   *directory.Store
	prefs *prefs.Store
	cfg   *config.Config
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(dir *directory.Store, p *prefs.Store, cfg *config.Config) *RedirectHandler {
	return &RedirectHandler{dir: dir, prefs: p, cfg: cfg}
}

// Go resolves ?q= and redirects to the target. An empty query goes back
// to the start page.
func (h *RedirectHandler) Go(c fiber.Ctx) error {
	resolved, err := resolver.Resolve(c.Query("q", ""), h.dir, h.prefs.ResolverConfig())
	if err != nil {
		var cycle *resolver.AliasCycleError
		if errors.As(err, &cycle) {
			return renderError(c, h.cfg, fiber.StatusLoopDetected, "Alias Loop",
				"The shortcut aliases loop back on themselves: "+strings.Join(cycle.Chain, " → "))
		}
		return err
	}

	metrics.RecordResolution(resolved.Kind)
	if resolved.Kind == models.KindNone {
		return c.Redirect().To("/")
	}
	return c.Redirect().To(resolved.URL)
}

// Feedback sends the browser to the external feedback form.
func (h *RedirectHandler) Feedback(c fiber.Ctx) error {
	if h.cfg.FeedbackFormURL == "" {
		return renderError(c, h.cfg, fiber.StatusNotFound, "Not Found", "No feedback form is configured.")
	}
	return c.Redirect().To(h.cfg.FeedbackFormURL)
}
