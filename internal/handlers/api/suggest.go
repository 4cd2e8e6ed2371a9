package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"startpage/internal/middleware"
	"startpage/internal/models"
	"startpage/internal/suggest"
)

// SuggestHandler serves typeahead suggestions.
type SuggestHandler struct {
	assembler *suggest.Assembler
}

// NewSuggestHandler creates a new suggestion handler.
func NewSuggestHandler(a *suggest.Assembler) *SuggestHandler {
	return &SuggestHandler{assembler: a}
}

// Suggest returns suggestions for ?q=. When the same browser has sent a
// newer query in the meantime the answer is marked stale and carries no
// suggestions.
func (h *SuggestHandler) Suggest(c fiber.Ctx) error {
	query := c.Query("q", "")

	resolved, suggestions, err := h.assembler.SuggestFor(c.Context(), middleware.Client(c), query)
	switch {
	case errors.Is(err, suggest.ErrStale):
		return jsonSuccess(c, models.SuggestResponse{
			Query:       resolved.Query,
			Kind:        resolved.Kind,
			Suggestions: []string{},
			Stale:       true,
		})
	case err != nil:
		return resolveError(c, err)
	}

	return jsonSuccess(c, models.SuggestResponse{
		Query:       resolved.Query,
		Kind:        resolved.Kind,
		Suggestions: suggestions,
	})
}

// OpenSearch answers in the OpenSearch suggestions format browsers read
// from the address bar: [query, [completions...]].
func (h *SuggestHandler) OpenSearch(c fiber.Ctx) error {
	query := c.Query("q", "")

	_, suggestions, err := h.assembler.SuggestFor(c.Context(), middleware.Client(c), query)
	if err != nil && !errors.Is(err, suggest.ErrStale) {
		return resolveError(c, err)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return c.JSON([]any{query, suggestions}, "application/x-suggestions+json")
}
