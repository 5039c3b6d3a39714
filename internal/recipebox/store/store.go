package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrMalformed reports a stored value that does not decode into the
	// expected record. Repositories treat it as if the key were absent.
	ErrMalformed = errors.New("store: malformed data")
)

// Keys used in the durable key-value space.
const (
	SessionKey        = "user"
	RegistryKey       = "users"
	commentsKeyPrefix = "comments_"
)

// CommentsKey is the key holding the comment forest of one content id.
func CommentsKey(contentID string) string {
	return commentsKeyPrefix + contentID
}

// KV is the durable key-value storage every repository is built on. Reads and
// writes are all-or-nothing per key.
type KV interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put creates or replaces the value under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store is the root data access interface. Concrete drivers (sqlite, memory)
// implement this.
type Store interface {
	KV

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing storage is still reachable.
	Ping(ctx context.Context) error
}
