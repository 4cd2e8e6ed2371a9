package db

import (
	"context"
	"fmt"

	"startpage/internal/models"
)

// SaveLinkHealth upserts the latest check result for a shortcut key.
func (d *DB) SaveLinkHealth(ctx context.Context, h models.LinkHealth) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO link_health (key, url, status, error, checked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE
		SET url = EXCLUDED.url, status = EXCLUDED.status,
		    error = EXCLUDED.error, checked_at = EXCLUDED.checked_at
	`, h.Key, h.URL, h.Status, h.Error, h.CheckedAt)
	if err != nil {
		return fmt.Errorf("failed to save link health: %w", err)
	}
	return nil
}

// ListLinkHealth returns all recorded check results ordered by key.
func (d *DB) ListLinkHealth(ctx context.Context) ([]models.LinkHealth, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT key, url, status, error, checked_at
		FROM link_health
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list link health: %w", err)
	}
	defer rows.Close()

	var results []models.LinkHealth
	for rows.Next() {
		var h models.LinkHealth
		if err := rows.Scan(&h.Key, &h.URL, &h.Status, &h.Error, &h.CheckedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link health: %w", err)
		}
		results = append(results, h)
	}
	return results, rows.Err()
}

// DeleteLinkHealthExcept removes results for keys no longer in the directory.
func (d *DB) DeleteLinkHealthExcept(ctx context.Context, keys []string) error {
	if _, err := d.Pool.Exec(ctx, `DELETE FROM link_health WHERE NOT (key = ANY($1))`, keys); err != nil {
		return fmt.Errorf("failed to prune link health: %w", err)
	}
	return nil
}
