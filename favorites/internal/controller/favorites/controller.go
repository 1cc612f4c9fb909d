package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/abhishek622/screenscene/favorites/internal/repository"
	"github.com/abhishek622/screenscene/favorites/pkg/model"
	"go.uber.org/zap"
)

// ErrInvalidArgument is returned when a required argument is missing.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrExists is returned when adding an item that is already a favorite.
var ErrExists = errors.New("already a favorite")

type favoritesRepository interface {
	Get(ctx context.Context, userID string) ([]model.FavoriteItem, error)
	Put(ctx context.Context, userID string, items []model.FavoriteItem) error
	Delete(ctx context.Context, userID string) error
}

// Controller defines a favorites service controller.
type Controller struct {
	repo   favoritesRepository
	logger *zap.Logger
}

// New creates a favorites service controller.
func New(repo favoritesRepository, logger *zap.Logger) *Controller {
	return &Controller{repo, logger}
}

// List returns the user's favorites, most recent first. An absent or
// unreadable record yields an empty list.
func (c *Controller) List(ctx context.Context, userID string) ([]model.FavoriteItem, error) {
	if userID == "" {
		return nil, nil
	}
	items, err := c.repo.Get(ctx, userID)
	if err != nil {
		c.logger.Warn("Discarding unreadable favorites record", zap.String("userID", userID), zap.Error(err))
		return nil, nil
	}
	return items, nil
}

// Add prepends the item to the user's favorites, stamped with the
// current time. Adding an item whose (id, media type) identity key is
// already present fails with ErrExists and leaves the list untouched.
func (c *Controller) Add(ctx context.Context, userID string, item model.FavoriteItem) error {
	if userID == "" || item.ID == 0 {
		return ErrInvalidArgument
	}
	mediaType := model.ResolveMediaType(item)
	items, err := c.getForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	for _, fav := range items {
		if fav.ID == item.ID && fav.MediaType == mediaType {
			return ErrExists
		}
	}
	item.MediaType = mediaType
	item.AddedAt = time.Now().UTC()
	return c.repo.Put(ctx, userID, append([]model.FavoriteItem{item}, items...))
}

// Remove deletes any entry matching the identity key and rewrites the
// list. Removing an item that is not in the list still succeeds.
func (c *Controller) Remove(ctx context.Context, userID string, itemID int64, mediaType model.MediaType) error {
	if userID == "" || itemID == 0 {
		return ErrInvalidArgument
	}
	items, err := c.getForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	kept := make([]model.FavoriteItem, 0, len(items))
	for _, fav := range items {
		if fav.ID == itemID && fav.MediaType == mediaType {
			continue
		}
		kept = append(kept, fav)
	}
	return c.repo.Put(ctx, userID, kept)
}

// IsFavorite reports whether the identity key is in the user's list.
func (c *Controller) IsFavorite(ctx context.Context, userID string, itemID int64, mediaType model.MediaType) bool {
	if userID == "" || itemID == 0 {
		return false
	}
	items, _ := c.List(ctx, userID)
	for _, fav := range items {
		if fav.ID == itemID && fav.MediaType == mediaType {
			return true
		}
	}
	return false
}

// Count returns the number of favorites the user has.
func (c *Controller) Count(ctx context.Context, userID string) int {
	items, _ := c.List(ctx, userID)
	return len(items)
}

// Clear deletes the user's favorites record entirely.
func (c *Controller) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidArgument
	}
	return c.repo.Delete(ctx, userID)
}

// ListByType returns the user's favorites of one media type, preserving
// list order.
func (c *Controller) ListByType(ctx context.Context, userID string, mediaType model.MediaType) ([]model.FavoriteItem, error) {
	items, err := c.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	var res []model.FavoriteItem
	for _, fav := range items {
		if fav.MediaType == mediaType {
			res = append(res, fav)
		}
	}
	return res, nil
}

// Export returns a snapshot of the user's favorites for backup. It has
// no side effects.
func (c *Controller) Export(ctx context.Context, userID string) (*model.ExportSnapshot, error) {
	if userID == "" {
		return nil, ErrInvalidArgument
	}
	items, err := c.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.FavoriteItem{}
	}
	return &model.ExportSnapshot{
		UserID:     userID,
		ExportDate: time.Now().UTC(),
		Favorites:  items,
		Count:      len(items),
	}, nil
}

// Import replaces the user's stored list with the snapshot's favorites.
// There is no merging and no deduplication against existing data.
func (c *Controller) Import(ctx context.Context, userID string, snapshot model.ExportSnapshot) error {
	if userID == "" || snapshot.Favorites == nil {
		return ErrInvalidArgument
	}
	return c.repo.Put(ctx, userID, snapshot.Favorites)
}

// getForUpdate loads the list ahead of a write. A corrupt record is
// treated as empty so the write replaces it; substrate failures abort
// the operation before any mutation.
func (c *Controller) getForUpdate(ctx context.Context, userID string) ([]model.FavoriteItem, error) {
	items, err := c.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptRecord) {
			c.logger.Warn("Replacing corrupt favorites record", zap.String("userID", userID), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}
