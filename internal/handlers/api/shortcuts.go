package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"

	"startpage/internal/directory"
	"startpage/internal/models"
	"startpage/internal/prefs"
	"startpage/internal/validation"
)

// ShortcutHandler edits the shortcut directory via JSON API.
type ShortcutHandler struct {
	dir   *directory.Store
	prefs *prefs.Store
}

// NewShortcutHandler creates a new API shortcut handler.
func NewShortcutHandler(dir *directory.Store, p *prefs.Store) *ShortcutHandler {
	return &ShortcutHandler{dir: dir, prefs: p}
}

type shortcutRequest struct {
	Key string `json:"key"`
	models.Shortcut
}

func (h *ShortcutHandler) delimiters() []string {
	cfg := h.prefs.ResolverConfig()
	return []string{cfg.PathDelimiter, cfg.SearchDelimiter}
}

// List returns every shortcut in order. ?displayable=true keeps only the
// ones shown in the grid.
func (h *ShortcutHandler) List(c fiber.Ctx) error {
	if flag(c, "displayable") {
		return jsonSuccess(c, h.dir.Displayable())
	}
	return jsonSuccess(c, h.dir.Entries())
}

// Get returns a single shortcut by key.
func (h *ShortcutHandler) Get(c fiber.Ctx) error {
	key := keyParam(c)
	sc, ok := h.dir.Get(key)
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "shortcut not found")
	}
	return jsonSuccess(c, models.ShortcutEntry{Key: key, Shortcut: sc})
}

// Check reports whether ?key= is valid and free.
func (h *ShortcutHandler) Check(c fiber.Ctx) error {
	key := validation.NormalizeKey(c.Query("key", ""))
	if err := validation.ValidateKey(key, h.delimiters()...); err != nil {
		return jsonSuccess(c, models.KeyCheckResponse{Available: false, Reason: err.Error()})
	}
	if h.dir.Has(key) {
		return jsonSuccess(c, models.KeyCheckResponse{Available: false, Reason: "already in use"})
	}
	return jsonSuccess(c, models.KeyCheckResponse{Available: true})
}

// Create adds a shortcut. An existing key is only replaced with
// ?overwrite=true, a URL without scheme is only accepted with
// ?fix_scheme=true.
func (h *ShortcutHandler) Create(c fiber.Ctx) error {
	var body shortcutRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	key := validation.NormalizeKey(body.Key)
	sc, sent, err := h.prepare(c, key, body.Shortcut)
	if sent {
		return err
	}

	if err := h.dir.Add(c.Context(), key, sc, flag(c, "overwrite")); err != nil {
		return h.storeError(c, err)
	}

	return jsonCreated(c, models.ShortcutEntry{Key: key, Shortcut: sc})
}

// Update replaces the shortcut under :key. A different body key renames it;
// renaming onto another existing key needs ?overwrite=true.
func (h *ShortcutHandler) Update(c fiber.Ctx) error {
	key := keyParam(c)
	if !h.dir.Has(key) {
		return jsonError(c, fiber.StatusNotFound, "shortcut not found")
	}

	var body shortcutRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	newKey := validation.NormalizeKey(body.Key)
	if newKey == "" {
		newKey = key
	}
	sc, sent, err := h.prepare(c, newKey, body.Shortcut)
	if sent {
		return err
	}

	if err := h.dir.Edit(c.Context(), key, newKey, sc, flag(c, "overwrite")); err != nil {
		return h.storeError(c, err)
	}

	return jsonSuccess(c, models.ShortcutEntry{Key: newKey, Shortcut: sc})
}

// Delete removes the shortcut under :key.
func (h *ShortcutHandler) Delete(c fiber.Ctx) error {
	if err := h.dir.Delete(c.Context(), keyParam(c)); err != nil {
		return h.storeError(c, err)
	}
	return jsonSuccess(c, fiber.Map{"deleted": true})
}

// Clear removes every shortcut. Requires ?confirm=true.
func (h *ShortcutHandler) Clear(c fiber.Ctx) error {
	if !flag(c, "confirm") {
		return jsonError(c, fiber.StatusConflict, "clearing all shortcuts needs confirm=true")
	}
	if err := h.dir.Clear(c.Context()); err != nil {
		return h.storeError(c, err)
	}
	return jsonSuccess(c, h.dir.Entries())
}

// Reset restores the built-in shortcuts. Requires ?confirm=true.
func (h *ShortcutHandler) Reset(c fiber.Ctx) error {
	if !flag(c, "confirm") {
		return jsonError(c, fiber.StatusConflict, "resetting shortcuts needs confirm=true")
	}
	if err := h.dir.Reset(c.Context()); err != nil {
		return h.storeError(c, err)
	}
	return jsonSuccess(c, h.dir.Entries())
}

// prepare fixes the scheme when asked and validates. When sent is true an
// error response has been written and err is the result of writing it.
func (h *ShortcutHandler) prepare(c fiber.Ctx, key string, sc models.Shortcut) (models.Shortcut, bool, error) {
	if sc.URL != "" && !validation.HasScheme(sc.URL) {
		fixed, _ := validation.EnsureScheme(sc.URL)
		if !flag(c, "fix_scheme") {
			return sc, true, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"status":    "error",
				"error":     "url has no scheme",
				"suggested": fixed,
			})
		}
		sc.URL = fixed
	}

	if err := validation.ValidateShortcut(key, sc, h.delimiters()...); err != nil {
		return sc, true, jsonInvalid(c, err)
	}
	return sc, false, nil
}

func (h *ShortcutHandler) storeError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "shortcut not found")
	case errors.Is(err, directory.ErrKeyExists):
		return jsonError(c, fiber.StatusConflict, "shortcut key already exists, resend with overwrite=true to replace it")
	case errors.Is(err, directory.ErrEmptyKey):
		return jsonError(c, fiber.StatusBadRequest, "shortcut key is empty")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "failed to save shortcuts")
	}
}
