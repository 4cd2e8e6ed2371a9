package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"startpage/internal/models"
	"startpage/internal/prefs"
)

// PreferencesHandler reads and updates the start page preferences.
type PreferencesHandler struct {
	prefs *prefs.Store
}

// NewPreferencesHandler creates a new preferences handler.
func NewPreferencesHandler(p *prefs.Store) *PreferencesHandler {
	return &PreferencesHandler{prefs: p}
}

// Get returns the preferences and the selectable search engines.
func (h *PreferencesHandler) Get(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{
		"preferences": h.prefs.Get(),
		"engines":     h.prefs.Engines(),
	})
}

// Update applies a partial update; omitted fields keep their value.
func (h *PreferencesHandler) Update(c fiber.Ctx) error {
	var patch models.PreferencesPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	p, err := h.prefs.Update(c.Context(), patch)
	if err != nil {
		return jsonInvalid(c, err)
	}
	return jsonSuccess(c, fiber.Map{"preferences": p})
}

// Reset restores the default preferences.
func (h *PreferencesHandler) Reset(c fiber.Ctx) error {
	p, err := h.prefs.Reset(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save preferences")
	}
	return jsonSuccess(c, fiber.Map{"preferences": p})
}
