package favorites

import (
	"context"
	"testing"

	"github.com/abhishek622/screenscene/favorites/internal/repository"
	"github.com/abhishek622/screenscene/favorites/pkg/model"
	"github.com/abhishek622/screenscene/pkg/keyvalue/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newController(t *testing.T) (*Controller, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(repository.New(store), zap.NewNop()), store
}

func movie(id int64, title string) model.FavoriteItem {
	return model.FavoriteItem{ID: id, Title: title, ReleaseDate: "1999-03-31"}
}

func show(id int64, name string) model.FavoriteItem {
	return model.FavoriteItem{ID: id, Name: name, FirstAirDate: "2008-01-20"}
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	require.NoError(t, c.Add(ctx, "u1", show(1396, "Breaking Bad")))

	items, err := c.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Most recent first.
	assert.Equal(t, int64(1396), items[0].ID)
	assert.Equal(t, int64(603), items[1].ID)
	assert.Equal(t, model.MediaTypeTV, items[0].MediaType)
	assert.Equal(t, model.MediaTypeMovie, items[1].MediaType)
	assert.False(t, items[0].AddedAt.IsZero())
}

func TestAddDuplicate(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	assert.ErrorIs(t, c.Add(ctx, "u1", movie(603, "The Matrix")), ErrExists)

	// Same id under the other media type is a different identity key.
	assert.NoError(t, c.Add(ctx, "u1", show(603, "Some Show")))
	assert.Equal(t, 2, c.Count(ctx, "u1"))
}

func TestAddInvalid(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	assert.ErrorIs(t, c.Add(ctx, "", movie(603, "The Matrix")), ErrInvalidArgument)
	assert.ErrorIs(t, c.Add(ctx, "u1", model.FavoriteItem{Title: "No ID"}), ErrInvalidArgument)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	require.NoError(t, c.Remove(ctx, "u1", 603, model.MediaTypeMovie))
	assert.False(t, c.IsFavorite(ctx, "u1", 603, model.MediaTypeMovie))

	// Removing again still succeeds.
	assert.NoError(t, c.Remove(ctx, "u1", 603, model.MediaTypeMovie))
	// So does removing something that was never there.
	assert.NoError(t, c.Remove(ctx, "u1", 42, model.MediaTypeTV))
}

func TestIsFavoriteAndCount(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	assert.False(t, c.IsFavorite(ctx, "u1", 603, model.MediaTypeMovie))
	assert.Equal(t, 0, c.Count(ctx, "u1"))

	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	assert.True(t, c.IsFavorite(ctx, "u1", 603, model.MediaTypeMovie))
	assert.False(t, c.IsFavorite(ctx, "u1", 603, model.MediaTypeTV))
	assert.Equal(t, 1, c.Count(ctx, "u1"))

	// Other users are isolated.
	assert.False(t, c.IsFavorite(ctx, "u2", 603, model.MediaTypeMovie))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	require.NoError(t, c.Clear(ctx, "u1"))
	assert.Equal(t, 0, c.Count(ctx, "u1"))
}

func TestListByType(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	require.NoError(t, c.Add(ctx, "u1", show(1396, "Breaking Bad")))
	require.NoError(t, c.Add(ctx, "u1", movie(27205, "Inception")))

	movies, err := c.ListByType(ctx, "u1", model.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, int64(27205), movies[0].ID)
	assert.Equal(t, int64(603), movies[1].ID)

	shows, err := c.ListByType(ctx, "u1", model.MediaTypeTV)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, int64(1396), shows[0].ID)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	require.NoError(t, c.Add(ctx, "u1", show(1396, "Breaking Bad")))

	snapshot, err := c.Export(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", snapshot.UserID)
	assert.Equal(t, 2, snapshot.Count)
	assert.False(t, snapshot.ExportDate.IsZero())

	// Import into a fresh user restores the exact list.
	require.NoError(t, c.Import(ctx, "u2", *snapshot))
	items, err := c.List(ctx, "u2")
	require.NoError(t, err)
	if diff := cmp.Diff(snapshot.Favorites, items); diff != "" {
		t.Errorf("imported favorites mismatch (-want +got):\n%s", diff)
	}
}

func TestExportEmpty(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	snapshot, err := c.Export(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Count)
	assert.NotNil(t, snapshot.Favorites)
}

func TestImportOverwrites(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	require.NoError(t, c.Import(ctx, "u1", model.ExportSnapshot{
		Favorites: []model.FavoriteItem{
			{ID: 27205, Title: "Inception", MediaType: model.MediaTypeMovie},
		},
	}))

	items, err := c.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(27205), items[0].ID)
}

func TestImportInvalid(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t)

	assert.ErrorIs(t, c.Import(ctx, "u1", model.ExportSnapshot{}), ErrInvalidArgument)
	assert.ErrorIs(t, c.Import(ctx, "", model.ExportSnapshot{Favorites: []model.FavoriteItem{}}), ErrInvalidArgument)
}

func TestCorruptRecordTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t)

	require.NoError(t, store.Set(ctx, "favorites:u1", []byte("{not json")))

	// Reads swallow the corruption.
	items, err := c.List(ctx, "u1")
	assert.NoError(t, err)
	assert.Empty(t, items)

	// Writes replace the corrupt record.
	require.NoError(t, c.Add(ctx, "u1", movie(603, "The Matrix")))
	items, err = c.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(603), items[0].ID)
}
