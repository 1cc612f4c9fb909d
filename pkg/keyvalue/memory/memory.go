package memory

import (
	"context"
	"sync"

	"github.com/abhishek622/screenscene/pkg/keyvalue"
	"go.opentelemetry.io/otel"
)

// Store defines an in-memory key-value store.
type Store struct {
	sync.RWMutex
	data map[string][]byte
}

const tracerID = "keyvalue-store-memory"

// New creates a new memory store.
func New() *Store {
	return &Store{data: map[string][]byte{}}
}

// Get retrieves the value stored under a key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Store/Get")
	defer span.End()

	v, ok := s.data[key]
	if !ok {
		return nil, keyvalue.ErrNoRecord
	}
	res := make([]byte, len(v))
	copy(res, v)
	return res, nil
}

// Set stores a value under a key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Store/Set")
	defer span.End()

	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

// Delete removes the value stored under a key, if any.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.Lock()
	defer s.Unlock()

	_, span := otel.Tracer(tracerID).Start(ctx, "Store/Delete")
	defer span.End()

	delete(s.data, key)
	return nil
}
