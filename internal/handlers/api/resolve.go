package api

import (
	"github.com/gofiber/fiber/v3"

	"startpage/internal/directory"
	"startpage/internal/metrics"
	"startpage/internal/prefs"
	"startpage/internal/resolver"
)

// ResolveHandler classifies queries via JSON API.
type ResolveHandler struct {
	dir   *directory.Store
	prefs *prefs.Store
}

// NewResolveHandler creates a new API resolve handler.
func NewResolveHandler(dir *directory.Store, p *prefs.Store) *ResolveHandler {
	return &ResolveHandler{dir: dir, prefs: p}
}

// Resolve returns the navigation target for ?q= without redirecting.
func (h *ResolveHandler) Resolve(c fiber.Ctx) error {
	resolved, err := resolver.Resolve(c.Query("q", ""), h.dir, h.prefs.ResolverConfig())
	if err != nil {
		return resolveError(c, err)
	}

	metrics.RecordResolution(resolved.Kind)
	return jsonSuccess(c, resolved)
}
