package model

import "time"

// MediaType discriminates movie and TV-show records.
type MediaType string

const (
	MediaTypeMovie = MediaType("movie")
	MediaTypeTV    = MediaType("tv")
)

// Review is one user's rating and write-up for one catalog item. There
// is at most one review per (user, item, media type); resubmitting
// overwrites rating, title and content in place while keeping the
// original id and creation time.
type Review struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ItemID     int64     `json:"itemId"`
	MediaType  MediaType `json:"mediaType"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Helpful    int       `json:"helpful"`
	NotHelpful int       `json:"notHelpful"`
}

// ReviewData carries the caller-supplied fields of a review submission.
// Rating is expected to be in the 1..5 range by contract; the store does
// not enforce the range.
type ReviewData struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ReviewStats aggregates the reviews of one item.
type ReviewStats struct {
	TotalReviews       int         `json:"totalReviews"`
	AverageRating      float64     `json:"averageRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

// SortMode selects the ordering applied by SortReviews.
type SortMode string

const (
	SortNewest        = SortMode("newest")
	SortOldest        = SortMode("oldest")
	SortHighestRating = SortMode("highest-rating")
	SortLowestRating  = SortMode("lowest-rating")
	SortMostHelpful   = SortMode("most-helpful")
)

// ReviewEvent is the payload of a bulk review import event.
type ReviewEvent struct {
	UserID     string          `json:"userId"`
	ItemID     int64           `json:"itemId"`
	MediaType  MediaType       `json:"mediaType"`
	ReviewID   string          `json:"reviewId,omitempty"`
	Rating     int             `json:"rating"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	ProviderID string          `json:"providerId"`
	EventType  ReviewEventType `json:"eventType"`
}

// ReviewEventType defines the type of a review event.
type ReviewEventType string

const (
	ReviewEventTypePut    = ReviewEventType("put")
	ReviewEventTypeDelete = ReviewEventType("delete")
)
