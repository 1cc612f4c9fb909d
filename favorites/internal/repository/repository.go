// Package repository reads and writes favorites records through the
// key-value substrate.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhishek622/screenscene/favorites/pkg/model"
	"github.com/abhishek622/screenscene/pkg/keyvalue"
)

// ErrCorruptRecord is returned when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt record")

// Repository persists per-user favorites lists as JSON arrays under
// favorites:{userId}.
type Repository struct {
	store keyvalue.Store
}

// New creates a new favorites repository on top of the given store.
func New(store keyvalue.Store) *Repository {
	return &Repository{store}
}

func favoritesKey(userID string) string {
	return "favorites:" + userID
}

// Get returns the stored favorites list for a user. A missing record is
// not an error and yields a nil list.
func (r *Repository) Get(ctx context.Context, userID string) ([]model.FavoriteItem, error) {
	v, err := r.store.Get(ctx, favoritesKey(userID))
	if err != nil {
		if errors.Is(err, keyvalue.ErrNoRecord) {
			return nil, nil
		}
		return nil, err
	}
	var items []model.FavoriteItem
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return items, nil
}

// Put replaces the stored favorites list for a user.
func (r *Repository) Put(ctx context.Context, userID string, items []model.FavoriteItem) error {
	v, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, favoritesKey(userID), v)
}

// Delete removes the user's favorites record entirely.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, favoritesKey(userID))
}
