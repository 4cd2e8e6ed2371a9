package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback kinds.
const (
	FeedbackBug     = "bug"
	FeedbackFeature = "feature"
	FeedbackOther   = "other"
)

// Feedback is a bug report or feature request submitted from the start page.
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Email     string    `json:"email,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
