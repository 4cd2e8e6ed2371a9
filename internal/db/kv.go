package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetValue returns the value stored under key, or ErrKeyNotFound when the key
// is absent or expired.
func (d *DB) GetValue(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := d.Pool.QueryRow(ctx, `
		SELECT value FROM kv_store
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get value: %w", err)
	}
	return value, nil
}

// SetValue upserts value under key. A zero exp stores the value without expiry.
func (d *DB) SetValue(ctx context.Context, key string, value []byte, exp time.Duration) error {
	var expiresAt *time.Time
	if exp > 0 {
		t := time.Now().Add(exp)
		expiresAt = &t
	}

	_, err := d.Pool.Exec(ctx, `
		INSERT INTO kv_store (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()
	`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// DeleteValue removes key. Deleting an absent key is not an error.
func (d *DB) DeleteValue(ctx context.Context, key string) error {
	if _, err := d.Pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

// PurgeExpiredValues removes expired rows and returns how many were deleted.
func (d *DB) PurgeExpiredValues(ctx context.Context) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired values: %w", err)
	}
	return tag.RowsAffected(), nil
}
