package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"startpage/internal/db"
)

// Postgres stores values in the kv_store table.
type Postgres struct {
	db *db.DB
}

// NewPostgres connects, runs the embedded migrations and returns the backend.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	database, err := db.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		return nil, err
	}
	return &Postgres{db: database}, nil
}

// NewPostgresFromDB wraps an already migrated database.
func NewPostgresFromDB(database *db.DB) *Postgres {
	return &Postgres{db: database}
}

// DB exposes the underlying database for the feedback and link health tables.
func (p *Postgres) DB() *db.DB {
	return p.db
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := p.db.GetValue(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (p *Postgres) Set(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	return p.db.SetValue(ctx, key, val, exp)
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	return p.db.DeleteValue(ctx, key)
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}
