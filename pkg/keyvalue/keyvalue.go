// Package keyvalue defines the synchronous key-value substrate shared by
// the favorites and reviews services.
package keyvalue

import (
	"context"
	"errors"
)

// ErrNoRecord is returned by Get when no value is stored under a key.
var ErrNoRecord = errors.New("no record under key")

// Store is the persistence substrate: a flat namespace of string keys
// holding JSON-serialized records. There is no atomicity across keys or
// across a read and a subsequent write of the same key; the last writer
// wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
