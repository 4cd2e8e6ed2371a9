package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"startpage/internal/models"
)

// CreateFeedback stores a feedback submission. ID and CreatedAt are filled in
// when empty.
func (d *DB) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}

	err := d.Pool.QueryRow(ctx, `
		INSERT INTO feedback (id, kind, message, email, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, fb.ID, fb.Kind, fb.Message, fb.Email, fb.UserAgent).Scan(&fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// GetFeedback returns a single feedback submission.
func (d *DB) GetFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	fb := &models.Feedback{}
	err := d.Pool.QueryRow(ctx, `
		SELECT id, kind, message, email, user_agent, created_at
		FROM feedback WHERE id = $1
	`, id).Scan(&fb.ID, &fb.Kind, &fb.Message, &fb.Email, &fb.UserAgent, &fb.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb, nil
}

// ListFeedback returns the most recent submissions, newest first.
func (d *DB) ListFeedback(ctx context.Context, limit int) ([]models.Feedback, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, kind, message, email, user_agent, created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var items []models.Feedback
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.Kind, &fb.Message, &fb.Email, &fb.UserAgent, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		items = append(items, fb)
	}
	return items, rows.Err()
}
