package storage

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned by stores after Close
	ErrClosed = errors.New("store closed")

	// ErrUnknownDriver is returned for an unsupported cache driver name
	ErrUnknownDriver = errors.New("unknown cache driver")
)

// Driver names accepted by cache.driver
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// KeyValueStore persists string values by key
type KeyValueStore interface {
	// Get retrieves a value. ok is false when the key has never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// SetMany writes all entries in one operation; either all are visible or none are
	SetMany(ctx context.Context, entries map[string]string) error

	// Close releases the underlying resources
	Close() error
}

// Pinger is implemented by stores backed by a remote server
type Pinger interface {
	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error
}
