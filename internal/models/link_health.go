package models

import "time"

// Health status constants
const (
	HealthUnknown   = "unknown"
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// LinkHealth is the last reachability check result for a shortcut URL.
type LinkHealth struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// IsHealthy returns true if the link has a healthy status.
func (h LinkHealth) IsHealthy() bool {
	return h.Status == HealthHealthy
}

// IsStale returns true if the result is older than maxAge.
func (h LinkHealth) IsStale(maxAge time.Duration) bool {
	if h.CheckedAt.IsZero() {
		return true
	}
	return time.Since(h.CheckedAt) > maxAge
}
