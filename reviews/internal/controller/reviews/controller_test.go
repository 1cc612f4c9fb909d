package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/abhishek622/screenscene/pkg/keyvalue/memory"
	"github.com/abhishek622/screenscene/reviews/internal/repository"
	"github.com/abhishek622/screenscene/reviews/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newController(t *testing.T) (*Controller, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(repository.New(store), nil, zap.NewNop()), store
}

func TestUpsertCreates(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	review, err := c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 5, Title: "Great", Content: "Loved it"})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "u1", review.UserID)
	assert.Equal(t, int64(603), review.ItemID)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, review.CreatedAt, review.UpdatedAt)

	list, err := c.List(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, review.ID, list[0].ID)
}

func TestUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	first, err := c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 5, Title: "Great"})
	require.NoError(t, err)
	_, err = c.Upsert(ctx, "u2", 603, model.MediaTypeMovie, model.ReviewData{Rating: 4})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	second, err := c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 2, Title: "Changed my mind"})
	require.NoError(t, err)

	// Identity and creation time survive the overwrite.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, 2, second.Rating)
	assert.Equal(t, "Changed my mind", second.Title)

	// The list position survives too, and no duplicate appears.
	list, err := c.List(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u2", list[0].UserID)
	assert.Equal(t, "u1", list[1].UserID)
}

func TestUpsertInvalid(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	_, err := c.Upsert(ctx, "", 603, model.MediaTypeMovie, model.ReviewData{Rating: 5})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c.Upsert(ctx, "u1", 0, model.MediaTypeMovie, model.ReviewData{Rating: 5})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = c.Upsert(ctx, "u1", 603, "", model.ReviewData{Rating: 5})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGetForUser(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	_, err := c.GetForUser(ctx, "u1", 603, model.MediaTypeMovie)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 5})
	require.NoError(t, err)

	review, err := c.GetForUser(ctx, "u1", 603, model.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, created.ID, review.ID)

	_, err = c.GetForUser(ctx, "u2", 603, model.MediaTypeMovie)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	review, err := c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 5})
	require.NoError(t, err)

	// Another user cannot delete it.
	require.NoError(t, c.Delete(ctx, "u2", 603, model.MediaTypeMovie, review.ID))
	list, err := c.List(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// The author can, and the per-user index follows.
	require.NoError(t, c.Delete(ctx, "u1", 603, model.MediaTypeMovie, review.ID))
	list, err = c.List(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	assert.Empty(t, list)
	mine, err := c.UserReviews(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	// Deleting an absent review still succeeds.
	assert.NoError(t, c.Delete(ctx, "u1", 603, model.MediaTypeMovie, review.ID))
}

func TestUserReviews(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	_, err := c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 5})
	require.NoError(t, err)
	_, err = c.Upsert(ctx, "u1", 1396, model.MediaTypeTV, model.ReviewData{Rating: 4})
	require.NoError(t, err)
	_, err = c.Upsert(ctx, "u2", 603, model.MediaTypeMovie, model.ReviewData{Rating: 3})
	require.NoError(t, err)

	mine, err := c.UserReviews(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// Newest first.
	assert.Equal(t, int64(1396), mine[0].ItemID)
	assert.Equal(t, int64(603), mine[1].ItemID)

	// Overwriting updates the index entry in place.
	_, err = c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 1})
	require.NoError(t, err)
	mine, err = c.UserReviews(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 1, mine[1].Rating)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	for i, rating := range []int{5, 5, 4, 3, 1} {
		_, err := c.Upsert(ctx, "u"+string(rune('a'+i)), 603, model.MediaTypeMovie, model.ReviewData{Rating: rating})
		require.NoError(t, err)
	}

	stats, err := c.Stats(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalReviews)
	assert.Equal(t, 3.6, stats.AverageRating)
	assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 1, 4: 1, 5: 2}, stats.RatingDistribution)
}

func TestStatsEmpty(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	stats, err := c.Stats(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalReviews)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, stats.RatingDistribution)
}

func TestMarkHelpful(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	review, err := c.Upsert(ctx, "author", 603, model.MediaTypeMovie, model.ReviewData{Rating: 5})
	require.NoError(t, err)

	require.NoError(t, c.MarkHelpful(ctx, review.ID, 603, model.MediaTypeMovie, true, "voter1"))
	require.NoError(t, c.MarkHelpful(ctx, review.ID, 603, model.MediaTypeMovie, false, "voter2"))

	list, err := c.List(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Helpful)
	assert.Equal(t, 1, list[0].NotHelpful)

	// One vote per user, ever. Not even flipping direction.
	assert.ErrorIs(t, c.MarkHelpful(ctx, review.ID, 603, model.MediaTypeMovie, true, "voter2"), ErrAlreadyVoted)
	assert.ErrorIs(t, c.MarkHelpful(ctx, review.ID, 603, model.MediaTypeMovie, false, "voter2"), ErrAlreadyVoted)

	list, err = c.List(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	assert.Equal(t, 1, list[0].Helpful)
	assert.Equal(t, 1, list[0].NotHelpful)
}

func TestMarkHelpfulNotFound(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	err := c.MarkHelpful(ctx, "no-such-review", 603, model.MediaTypeMovie, true, "voter1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	_, err := c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 5, Title: "Mind-bending", Content: "A classic"})
	require.NoError(t, err)
	_, err = c.Upsert(ctx, "u2", 603, model.MediaTypeMovie, model.ReviewData{Rating: 2, Title: "Overrated", Content: "Did not age well"})
	require.NoError(t, err)

	res, err := c.Search(ctx, 603, model.MediaTypeMovie, "CLASSIC")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "u1", res[0].UserID)

	res, err = c.Search(ctx, 603, model.MediaTypeMovie, "overrated")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "u2", res[0].UserID)

	res, err = c.Search(ctx, 603, model.MediaTypeMovie, "")
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = c.Search(ctx, 603, model.MediaTypeMovie, "nothing matches this")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSortReviews(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reviews := []model.Review{
		{ID: "a", Rating: 3, Helpful: 5, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b", Rating: 5, Helpful: 0, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "c", Rating: 3, Helpful: 9, CreatedAt: base},
	}

	ids := func(rs []model.Review) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(SortReviews(reviews, model.SortNewest)))
	assert.Equal(t, []string{"c", "b", "a"}, ids(SortReviews(reviews, model.SortOldest)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(SortReviews(reviews, model.SortHighestRating)))
	// Stable: a and c tie on rating and keep input order.
	assert.Equal(t, []string{"a", "c", "b"}, ids(SortReviews(reviews, model.SortLowestRating)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(SortReviews(reviews, model.SortMostHelpful)))
	// Unknown mode falls back to newest.
	assert.Equal(t, []string{"a", "b", "c"}, ids(SortReviews(reviews, "bogus")))

	// The input is left untouched.
	assert.Equal(t, []string{"a", "b", "c"}, ids(reviews))
}

func TestCorruptRecordsTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t)

	require.NoError(t, store.Set(ctx, "reviews:movie:603", []byte("{not json")))

	list, err := c.List(ctx, 603, model.MediaTypeMovie)
	assert.NoError(t, err)
	assert.Empty(t, list)

	// Writes replace the corrupt record.
	_, err = c.Upsert(ctx, "u1", 603, model.MediaTypeMovie, model.ReviewData{Rating: 4})
	require.NoError(t, err)
	list, err = c.List(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestIngestion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.New()
	repo := repository.New(store)
	events := make(chan model.ReviewEvent)
	c := New(repo, channelIngester{events}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, c.StartIngestion(ctx))
	}()

	events <- model.ReviewEvent{
		UserID:    "u1",
		ItemID:    603,
		MediaType: model.MediaTypeMovie,
		Rating:    5,
		Title:     "Great",
		EventType: model.ReviewEventTypePut,
	}
	close(events)
	<-done

	list, err := c.List(ctx, 603, model.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].UserID)
	assert.Equal(t, 5, list[0].Rating)
}

type channelIngester struct {
	ch chan model.ReviewEvent
}

func (i channelIngester) Ingest(ctx context.Context) (chan model.ReviewEvent, error) {
	return i.ch, nil
}
