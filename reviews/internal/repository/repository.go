// Package repository reads and writes review records through the
// key-value substrate. A review lives in two places that are written
// separately: the per-item list and the per-user index.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhishek622/screenscene/pkg/keyvalue"
	"github.com/abhishek622/screenscene/reviews/pkg/model"
)

// ErrCorruptRecord is returned when a stored record cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt record")

// Repository persists review records as JSON under the
// reviews:{mediaType}:{itemId}, user_reviews:{userId} and
// helpfulness:{reviewId} keys.
type Repository struct {
	store keyvalue.Store
}

// New creates a new reviews repository on top of the given store.
func New(store keyvalue.Store) *Repository {
	return &Repository{store}
}

func reviewsKey(itemID int64, mediaType model.MediaType) string {
	return fmt.Sprintf("reviews:%s:%d", mediaType, itemID)
}

func userReviewsKey(userID string) string {
	return "user_reviews:" + userID
}

func helpfulnessKey(reviewID string) string {
	return "helpfulness:" + reviewID
}

// GetItemReviews returns the stored review list for an item. A missing
// record is not an error and yields a nil list.
func (r *Repository) GetItemReviews(ctx context.Context, itemID int64, mediaType model.MediaType) ([]model.Review, error) {
	return r.getReviews(ctx, reviewsKey(itemID, mediaType))
}

// PutItemReviews replaces the stored review list for an item.
func (r *Repository) PutItemReviews(ctx context.Context, itemID int64, mediaType model.MediaType, reviews []model.Review) error {
	return r.putReviews(ctx, reviewsKey(itemID, mediaType), reviews)
}

// GetUserReviews returns the per-user review index. A missing record is
// not an error and yields a nil list.
func (r *Repository) GetUserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	return r.getReviews(ctx, userReviewsKey(userID))
}

// PutUserReviews replaces the per-user review index.
func (r *Repository) PutUserReviews(ctx context.Context, userID string, reviews []model.Review) error {
	return r.putReviews(ctx, userReviewsKey(userID), reviews)
}

// GetHelpfulness returns the helpfulness ledger of a review: which users
// voted, and how. A missing record yields an empty ledger.
func (r *Repository) GetHelpfulness(ctx context.Context, reviewID string) (map[string]bool, error) {
	v, err := r.store.Get(ctx, helpfulnessKey(reviewID))
	if err != nil {
		if errors.Is(err, keyvalue.ErrNoRecord) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	var votes map[string]bool
	if err := json.Unmarshal(v, &votes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if votes == nil {
		votes = map[string]bool{}
	}
	return votes, nil
}

// PutHelpfulness replaces the helpfulness ledger of a review.
func (r *Repository) PutHelpfulness(ctx context.Context, reviewID string, votes map[string]bool) error {
	v, err := json.Marshal(votes)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, helpfulnessKey(reviewID), v)
}

func (r *Repository) getReviews(ctx context.Context, key string) ([]model.Review, error) {
	v, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, keyvalue.ErrNoRecord) {
			return nil, nil
		}
		return nil, err
	}
	var reviews []model.Review
	if err := json.Unmarshal(v, &reviews); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return reviews, nil
}

func (r *Repository) putReviews(ctx context.Context, key string, reviews []model.Review) error {
	v, err := json.Marshal(reviews)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, v)
}
