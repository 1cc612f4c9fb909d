package testutil

import (
	"github.com/abhishek622/screenscene/pkg/keyvalue/memory"
	"github.com/abhishek622/screenscene/reviews/internal/controller/reviews"
	httphandler "github.com/abhishek622/screenscene/reviews/internal/handler/http"
	"github.com/abhishek622/screenscene/reviews/internal/repository"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
)

// NewTestReviewsHandler creates a new reviews HTTP handler backed by an
// in-memory store to be used in tests.
func NewTestReviewsHandler(logger *zap.Logger) *httphandler.Handler {
	return httphandler.New(NewTestReviewsController(logger), tally.NoopScope)
}

// NewTestReviewsController creates a new reviews controller backed by an
// in-memory store to be used in tests.
func NewTestReviewsController(logger *zap.Logger) *reviews.Controller {
	store := memory.New()
	repo := repository.New(store)
	return reviews.New(repo, nil, logger)
}
