package db

import "errors"

// Domain-level database error sentinels.
var (
	// Key/value errors
	ErrKeyNotFound = errors.New("key not found")

	// Feedback errors
	ErrFeedbackNotFound = errors.New("feedback not found")
)
