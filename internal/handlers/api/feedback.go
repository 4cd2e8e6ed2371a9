package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"startpage/internal/models"
	"startpage/internal/validation"
)

// FeedbackStore keeps submitted feedback. db.DB satisfies it.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, fb *models.Feedback) error
}

// FeedbackSender delivers feedback. email.Notifier satisfies it.
type FeedbackSender interface {
	SendFeedback(ctx context.Context, fb *models.Feedback) (bool, error)
}

// FeedbackHandler accepts bug reports and feature requests.
type FeedbackHandler struct {
	store   FeedbackStore
	sender  FeedbackSender
	formURL string
	logger  *slog.Logger
}

// NewFeedbackHandler creates a feedback handler. store and sender may be
// nil; formURL is handed back so the page can fall back to the external form.
func NewFeedbackHandler(store FeedbackStore, sender FeedbackSender, formURL string, logger *slog.Logger) *FeedbackHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackHandler{store: store, sender: sender, formURL: formURL, logger: logger}
}

// Submit validates, stores and mails a feedback message.
func (h *FeedbackHandler) Submit(c fiber.Ctx) error {
	var body struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
		Email   string `json:"email"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	fb := &models.Feedback{
		ID:        uuid.New(),
		Kind:      strings.TrimSpace(body.Kind),
		Message:   strings.TrimSpace(body.Message),
		Email:     strings.TrimSpace(body.Email),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		CreatedAt: time.Now().UTC(),
	}
	if fb.Kind == "" {
		fb.Kind = models.FeedbackOther
	}
	if err := validation.ValidateFeedback(*fb); err != nil {
		return jsonInvalid(c, err)
	}

	stored := false
	if h.store != nil {
		if err := h.store.CreateFeedback(c.Context(), fb); err != nil {
			h.logger.Error("feedback: store failed", slog.String("id", fb.ID.String()), slog.String("error", err.Error()))
		} else {
			stored = true
		}
	}

	delivered := false
	if h.sender != nil {
		ok, err := h.sender.SendFeedback(c.Context(), fb)
		if err != nil {
			h.logger.Error("feedback: send failed", slog.String("id", fb.ID.String()), slog.String("error", err.Error()))
		}
		delivered = ok
	}

	if !stored && !delivered {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "error",
			"error":    "feedback could not be recorded",
			"form_url": h.formURL,
		})
	}

	return jsonCreated(c, models.FeedbackResponse{
		ID:        fb.ID.String(),
		Delivered: delivered,
		FormURL:   h.formURL,
	})
}
