package models

// SuggestResponse contains the suggestions for a typed query.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Kind        Kind     `json:"kind"`
	Suggestions []string `json:"suggestions"`
	Stale       bool     `json:"stale,omitempty"`
}

// KeyCheckResponse indicates whether a shortcut key is free.
type KeyCheckResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// FeedbackResponse acknowledges a feedback submission.
type FeedbackResponse struct {
	ID        string `json:"id"`
	Delivered bool   `json:"delivered"`
	FormURL   string `json:"form_url,omitempty"`
}
