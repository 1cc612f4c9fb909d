package reviews

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abhishek622/screenscene/reviews/internal/repository"
	"github.com/abhishek622/screenscene/reviews/pkg/model"
	"go.uber.org/zap"
)

// ErrInvalidArgument is returned when a required argument is missing.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotFound is returned when no matching review exists.
var ErrNotFound = errors.New("not found")

// ErrAlreadyVoted is returned when a user casts a second helpfulness
// vote on the same review. Votes are permanent; there is no change or
// retraction path.
var ErrAlreadyVoted = errors.New("already voted")

type reviewsRepository interface {
	GetItemReviews(ctx context.Context, itemID int64, mediaType model.MediaType) ([]model.Review, error)
	PutItemReviews(ctx context.Context, itemID int64, mediaType model.MediaType, reviews []model.Review) error
	GetUserReviews(ctx context.Context, userID string) ([]model.Review, error)
	PutUserReviews(ctx context.Context, userID string, reviews []model.Review) error
	GetHelpfulness(ctx context.Context, reviewID string) (map[string]bool, error)
	PutHelpfulness(ctx context.Context, reviewID string, votes map[string]bool) error
}

type ingester interface {
	Ingest(ctx context.Context) (chan model.ReviewEvent, error)
}

// Controller defines a reviews service controller.
type Controller struct {
	repo     reviewsRepository
	ingester ingester
	logger   *zap.Logger
}

// New creates a reviews service controller.
func New(repo reviewsRepository, ingester ingester, logger *zap.Logger) *Controller {
	return &Controller{repo, ingester, logger}
}

// List returns the reviews of an item in insertion order, newest first.
// An absent or unreadable record yields an empty list.
func (c *Controller) List(ctx context.Context, itemID int64, mediaType model.MediaType) ([]model.Review, error) {
	if itemID == 0 || mediaType == "" {
		return nil, nil
	}
	reviews, err := c.repo.GetItemReviews(ctx, itemID, mediaType)
	if err != nil {
		c.logger.Warn("Discarding unreadable reviews record",
			zap.Int64("itemID", itemID), zap.String("mediaType", string(mediaType)), zap.Error(err))
		return nil, nil
	}
	return reviews, nil
}

// GetForUser returns the user's review of an item, or ErrNotFound.
func (c *Controller) GetForUser(ctx context.Context, userID string, itemID int64, mediaType model.MediaType) (*model.Review, error) {
	if userID == "" || itemID == 0 || mediaType == "" {
		return nil, ErrInvalidArgument
	}
	reviews, err := c.List(ctx, itemID, mediaType)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].UserID == userID {
			return &reviews[i], nil
		}
	}
	return nil, ErrNotFound
}

// Upsert creates the user's review of an item or overwrites the existing
// one. An overwrite keeps the original id, creation time and list
// position and bumps the update time; a new review is prepended. The
// per-user index is updated together with the per-item list, as one
// logical operation.
func (c *Controller) Upsert(ctx context.Context, userID string, itemID int64, mediaType model.MediaType, data model.ReviewData) (*model.Review, error) {
	if userID == "" || itemID == 0 || mediaType == "" {
		return nil, ErrInvalidArgument
	}
	reviews, err := c.getItemReviewsForUpdate(ctx, itemID, mediaType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing := -1
	for i := range reviews {
		if reviews[i].UserID == userID {
			existing = i
			break
		}
	}

	var review model.Review
	if existing != -1 {
		review = reviews[existing]
		review.Rating = data.Rating
		review.Title = data.Title
		review.Content = data.Content
		review.UpdatedAt = now
		reviews[existing] = review
	} else {
		review = model.Review{
			ID:        strconv.FormatInt(now.UnixNano(), 10),
			UserID:    userID,
			ItemID:    itemID,
			MediaType: mediaType,
			Rating:    data.Rating,
			Title:     data.Title,
			Content:   data.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		reviews = append([]model.Review{review}, reviews...)
	}

	if err := c.repo.PutItemReviews(ctx, itemID, mediaType, reviews); err != nil {
		return nil, err
	}
	if err := c.upsertUserIndex(ctx, userID, review); err != nil {
		c.logger.Error("Failed to update per-user review index", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	return &review, nil
}

// Delete removes the user's review from the per-item list and from the
// per-user index. The per-item removal matches both review id and user
// id, so one user cannot delete another user's review. Deleting a review
// that does not exist still succeeds.
func (c *Controller) Delete(ctx context.Context, userID string, itemID int64, mediaType model.MediaType, reviewID string) error {
	if userID == "" || itemID == 0 || mediaType == "" || reviewID == "" {
		return ErrInvalidArgument
	}
	reviews, err := c.getItemReviewsForUpdate(ctx, itemID, mediaType)
	if err != nil {
		return err
	}
	kept := make([]model.Review, 0, len(reviews))
	for _, review := range reviews {
		if review.ID == reviewID && review.UserID == userID {
			continue
		}
		kept = append(kept, review)
	}
	if err := c.repo.PutItemReviews(ctx, itemID, mediaType, kept); err != nil {
		return err
	}

	userReviews, err := c.getUserReviewsForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	keptUser := make([]model.Review, 0, len(userReviews))
	for _, review := range userReviews {
		if review.ID == reviewID {
			continue
		}
		keptUser = append(keptUser, review)
	}
	if err := c.repo.PutUserReviews(ctx, userID, keptUser); err != nil {
		c.logger.Error("Failed to update per-user review index", zap.String("userID", userID), zap.Error(err))
		return err
	}
	return nil
}

// UserReviews returns all reviews authored by a user, newest first, read
// from the per-user index.
func (c *Controller) UserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	if userID == "" {
		return nil, nil
	}
	reviews, err := c.repo.GetUserReviews(ctx, userID)
	if err != nil {
		c.logger.Warn("Discarding unreadable user reviews record", zap.String("userID", userID), zap.Error(err))
		return nil, nil
	}
	return reviews, nil
}

// Stats aggregates the reviews of an item. The average is rounded half
// away from zero to one decimal place; the distribution is a fixed
// mapping over ratings 1..5, all zero when no reviews exist.
func (c *Controller) Stats(ctx context.Context, itemID int64, mediaType model.MediaType) (*model.ReviewStats, error) {
	reviews, err := c.List(ctx, itemID, mediaType)
	if err != nil {
		return nil, err
	}

	stats := &model.ReviewStats{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	if len(reviews) == 0 {
		return stats, nil
	}

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
		if _, ok := stats.RatingDistribution[review.Rating]; ok {
			stats.RatingDistribution[review.Rating]++
		}
	}
	stats.TotalReviews = len(reviews)
	stats.AverageRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return stats, nil
}

// MarkHelpful records a helpfulness vote on a review. A user gets one
// vote per review, ever: a second vote fails with ErrAlreadyVoted no
// matter its direction. The counter update and the ledger entry are two
// writes behind this one operation.
func (c *Controller) MarkHelpful(ctx context.Context, reviewID string, itemID int64, mediaType model.MediaType, isHelpful bool, userID string) error {
	if reviewID == "" || itemID == 0 || mediaType == "" || userID == "" {
		return ErrInvalidArgument
	}
	reviews, err := c.getItemReviewsForUpdate(ctx, itemID, mediaType)
	if err != nil {
		return err
	}
	target := -1
	for i := range reviews {
		if reviews[i].ID == reviewID {
			target = i
			break
		}
	}
	if target == -1 {
		return ErrNotFound
	}

	votes, err := c.repo.GetHelpfulness(ctx, reviewID)
	if err != nil {
		return err
	}
	if _, voted := votes[userID]; voted {
		return ErrAlreadyVoted
	}

	if isHelpful {
		reviews[target].Helpful++
	} else {
		reviews[target].NotHelpful++
	}
	if err := c.repo.PutItemReviews(ctx, itemID, mediaType, reviews); err != nil {
		return err
	}
	votes[userID] = isHelpful
	if err := c.repo.PutHelpfulness(ctx, reviewID, votes); err != nil {
		c.logger.Error("Failed to record helpfulness vote", zap.String("reviewID", reviewID), zap.Error(err))
		return err
	}
	return nil
}

// Search returns the item's reviews whose title or content contains the
// query, case-insensitively. An empty query returns the unfiltered list.
func (c *Controller) Search(ctx context.Context, itemID int64, mediaType model.MediaType, query string) ([]model.Review, error) {
	reviews, err := c.List(ctx, itemID, mediaType)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return reviews, nil
	}
	q := strings.ToLower(query)
	var res []model.Review
	for _, review := range reviews {
		if strings.Contains(strings.ToLower(review.Title), q) ||
			strings.Contains(strings.ToLower(review.Content), q) {
			res = append(res, review)
		}
	}
	return res, nil
}

// SortReviews returns a sorted copy of the given reviews. The sort is
// stable: equal elements keep their relative input order. An unknown
// mode falls back to newest-first.
func SortReviews(reviews []model.Review, mode model.SortMode) []model.Review {
	sorted := make([]model.Review, len(reviews))
	copy(sorted, reviews)

	switch mode {
	case model.SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
	case model.SortHighestRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Rating > sorted[j].Rating
		})
	case model.SortLowestRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Rating < sorted[j].Rating
		})
	case model.SortMostHelpful:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Helpful > sorted[j].Helpful
		})
	default:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}
	return sorted
}

// StartIngestion starts the ingestion of review events and applies them
// through the regular upsert and delete paths. It blocks until the
// event channel closes.
func (c *Controller) StartIngestion(ctx context.Context) error {
	ch, err := c.ingester.Ingest(ctx)
	if err != nil {
		return err
	}
	for e := range ch {
		switch e.EventType {
		case model.ReviewEventTypePut:
			data := model.ReviewData{Rating: e.Rating, Title: e.Title, Content: e.Content}
			if _, err := c.Upsert(ctx, e.UserID, e.ItemID, e.MediaType, data); err != nil {
				c.logger.Error("Failed to apply review put event", zap.Error(err))
			}
		case model.ReviewEventTypeDelete:
			if err := c.Delete(ctx, e.UserID, e.ItemID, e.MediaType, e.ReviewID); err != nil {
				c.logger.Error("Failed to apply review delete event", zap.Error(err))
			}
		default:
			c.logger.Warn("Skipping review event of unknown type", zap.String("eventType", string(e.EventType)))
		}
	}
	return nil
}

// getItemReviewsForUpdate loads the per-item list ahead of a write. A
// corrupt record is treated as empty so the write replaces it; substrate
// failures abort the operation before any mutation.
func (c *Controller) getItemReviewsForUpdate(ctx context.Context, itemID int64, mediaType model.MediaType) ([]model.Review, error) {
	reviews, err := c.repo.GetItemReviews(ctx, itemID, mediaType)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptRecord) {
			c.logger.Warn("Replacing corrupt reviews record",
				zap.Int64("itemID", itemID), zap.String("mediaType", string(mediaType)), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return reviews, nil
}

func (c *Controller) getUserReviewsForUpdate(ctx context.Context, userID string) ([]model.Review, error) {
	reviews, err := c.repo.GetUserReviews(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptRecord) {
			c.logger.Warn("Replacing corrupt user reviews record", zap.String("userID", userID), zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return reviews, nil
}

func (c *Controller) upsertUserIndex(ctx context.Context, userID string, review model.Review) error {
	userReviews, err := c.getUserReviewsForUpdate(ctx, userID)
	if err != nil {
		return err
	}
	existing := -1
	for i := range userReviews {
		if userReviews[i].ID == review.ID {
			existing = i
			break
		}
	}
	if existing != -1 {
		userReviews[existing] = review
	} else {
		userReviews = append([]model.Review{review}, userReviews...)
	}
	return c.repo.PutUserReviews(ctx, userID, userReviews)
}
