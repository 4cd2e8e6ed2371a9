// Package storage provides the key/value backends that persist the shortcut
// directory, user preferences and cached suggestions.
package storage

import (
	"context"
	"fmt"
	"time"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Backend is a byte-oriented key/value store.
//
// Get returns nil, nil for a key that is absent or expired. An exp of zero
// stores the value without expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, exp time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver      string
	Path        string // file driver directory
	DatabaseURL string // postgres driver
	RedisURL    string // redis driver
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile, "":
		return NewFile(opts.Path)
	case DriverPostgres:
		return NewPostgres(ctx, opts.DatabaseURL)
	case DriverRedis:
		return NewRedis(ctx, opts.RedisURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
