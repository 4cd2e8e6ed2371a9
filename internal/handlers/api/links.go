package api

import (
	"github.com/gofiber/fiber/v3"

	"startpage/internal/models"
)

// HealthSource returns the latest link check results.
type HealthSource interface {
	Results() []models.LinkHealth
}

// LinkHealthHandler exposes the link checker results.
type LinkHealthHandler struct {
	source HealthSource
}

// NewLinkHealthHandler creates a handler. source may be nil when the
// checker is disabled.
func NewLinkHealthHandler(source HealthSource) *LinkHealthHandler {
	return &LinkHealthHandler{source: source}
}

// List returns results, optionally filtered by ?status=.
func (h *LinkHealthHandler) List(c fiber.Ctx) error {
	if h.source == nil {
		return jsonError(c, fiber.StatusNotFound, "link checker is disabled")
	}

	status := c.Query("status", "")
	results := []models.LinkHealth{}
	for _, r := range h.source.Results() {
		if status == "" || r.Status == status {
			results = append(results, r)
		}
	}
	return jsonSuccess(c, results)
}
