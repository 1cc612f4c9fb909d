package redis

import (
	"context"
	"errors"

	"github.com/abhishek622/screenscene/pkg/keyvalue"
	goredis "github.com/redis/go-redis/v9"
)

// Store defines a redis-backed key-value store. Values are kept without
// expiry; the substrate has no record lifecycle of its own.
type Store struct {
	client *goredis.Client
}

// New creates a new redis store for the given address.
func New(addr string) *Store {
	return &Store{client: goredis.NewClient(&goredis.Options{Addr: addr})}
}

// Get retrieves the value stored under a key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, keyvalue.ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set stores a value under a key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// Delete removes the value stored under a key, if any.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
