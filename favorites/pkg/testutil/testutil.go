package testutil

import (
	"github.com/abhishek622/screenscene/favorites/internal/controller/favorites"
	httphandler "github.com/abhishek622/screenscene/favorites/internal/handler/http"
	"github.com/abhishek622/screenscene/favorites/internal/repository"
	"github.com/abhishek622/screenscene/pkg/keyvalue/memory"
	"go.uber.org/zap"
)

// NewTestFavoritesHandler creates a new favorites HTTP handler backed by
// an in-memory store to be used in tests.
func NewTestFavoritesHandler(logger *zap.Logger) *httphandler.Handler {
	store := memory.New()
	repo := repository.New(store)
	ctrl := favorites.New(repo, logger)
	return httphandler.New(ctrl)
}

// NewTestFavoritesController creates a new favorites controller backed by
// an in-memory store to be used in tests.
func NewTestFavoritesController(logger *zap.Logger) *favorites.Controller {
	store := memory.New()
	repo := repository.New(store)
	return favorites.New(repo, logger)
}
