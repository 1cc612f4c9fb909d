// Package http implements the JSON HTTP surface of the reviews service.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/abhishek622/screenscene/internal/httputil"
	"github.com/abhishek622/screenscene/reviews/internal/controller/reviews"
	"github.com/abhishek622/screenscene/reviews/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/uber-go/tally/v4"
)

// Handler defines the reviews service HTTP handler.
type Handler struct {
	ctrl  *reviews.Controller
	scope tally.Scope
}

// New creates a new reviews HTTP handler reporting per-operation
// counters to the given scope.
func New(ctrl *reviews.Controller, scope tally.Scope) *Handler {
	return &Handler{ctrl, scope}
}

// Register attaches the reviews routes to the given router group. The
// group is expected to carry the auth middleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/reviews/mine", h.UserReviews)
	rg.GET("/reviews/:mediaType/:itemId", h.List)
	rg.POST("/reviews/:mediaType/:itemId", h.Upsert)
	rg.GET("/reviews/:mediaType/:itemId/stats", h.Stats)
	rg.GET("/reviews/:mediaType/:itemId/search", h.Search)
	rg.GET("/reviews/:mediaType/:itemId/mine", h.GetForUser)
	rg.DELETE("/reviews/:mediaType/:itemId/:reviewId", h.Delete)
	rg.POST("/reviews/:mediaType/:itemId/:reviewId/helpful", h.MarkHelpful)
}

// List returns the reviews of an item, optionally sorted via ?sort=.
func (h *Handler) List(c *gin.Context) {
	h.scope.Counter("list").Inc(1)
	mediaType, itemID, ok := parseItemKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	list, _ := h.ctrl.List(c.Request.Context(), itemID, mediaType)
	list = reviews.SortReviews(list, model.SortMode(c.DefaultQuery("sort", string(model.SortNewest))))
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": list})
}

// GetForUser returns the authenticated user's review of an item.
func (h *Handler) GetForUser(c *gin.Context) {
	h.scope.Counter("get_for_user").Inc(1)
	userID := c.GetString(httputil.UserKey)
	mediaType, itemID, ok := parseItemKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	review, err := h.ctrl.GetForUser(c.Request.Context(), userID, itemID, mediaType)
	if err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// Upsert creates or overwrites the authenticated user's review.
func (h *Handler) Upsert(c *gin.Context) {
	h.scope.Counter("upsert").Inc(1)
	userID := c.GetString(httputil.UserKey)
	mediaType, itemID, ok := parseItemKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	var data model.ReviewData
	if err := c.ShouldBindJSON(&data); err != nil {
		failure(c, http.StatusBadRequest)
		return
	}
	review, err := h.ctrl.Upsert(c.Request.Context(), userID, itemID, mediaType, data)
	if err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// Delete removes the authenticated user's review.
func (h *Handler) Delete(c *gin.Context) {
	h.scope.Counter("delete").Inc(1)
	userID := c.GetString(httputil.UserKey)
	mediaType, itemID, ok := parseItemKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	if err := h.ctrl.Delete(c.Request.Context(), userID, itemID, mediaType, c.Param("reviewId")); err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UserReviews returns all reviews authored by the authenticated user.
func (h *Handler) UserReviews(c *gin.Context) {
	h.scope.Counter("user_reviews").Inc(1)
	userID := c.GetString(httputil.UserKey)
	list, _ := h.ctrl.UserReviews(c.Request.Context(), userID)
	if list == nil {
		list = []model.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": list})
}

// Stats returns the aggregate statistics of an item's reviews.
func (h *Handler) Stats(c *gin.Context) {
	h.scope.Counter("stats").Inc(1)
	mediaType, itemID, ok := parseItemKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	stats, err := h.ctrl.Stats(c.Request.Context(), itemID, mediaType)
	if err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Search returns the item's reviews matching ?q= by title or content.
func (h *Handler) Search(c *gin.Context) {
	h.scope.Counter("search").Inc(1)
	mediaType, itemID, ok := parseItemKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	list, _ := h.ctrl.Search(c.Request.Context(), itemID, mediaType, c.Query("q"))
	if list == nil {
		list = []model.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": list})
}

type markHelpfulRequest struct {
	IsHelpful bool `json:"isHelpful"`
}

// MarkHelpful records the authenticated user's helpfulness vote.
func (h *Handler) MarkHelpful(c *gin.Context) {
	h.scope.Counter("mark_helpful").Inc(1)
	userID := c.GetString(httputil.UserKey)
	mediaType, itemID, ok := parseItemKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	var req markHelpfulRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest)
		return
	}
	if err := h.ctrl.MarkHelpful(c.Request.Context(), c.Param("reviewId"), itemID, mediaType, req.IsHelpful, userID); err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseItemKey(c *gin.Context) (model.MediaType, int64, bool) {
	var mediaType model.MediaType
	switch model.MediaType(c.Param("mediaType")) {
	case model.MediaTypeMovie, model.MediaTypeTV:
		mediaType = model.MediaType(c.Param("mediaType"))
	default:
		return "", 0, false
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return mediaType, itemID, true
}

// failure writes the generic failure payload the UI layer expects.
func failure(c *gin.Context, status int) {
	c.JSON(status, gin.H{"success": false})
}

func failureFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reviews.ErrInvalidArgument):
		failure(c, http.StatusBadRequest)
	case errors.Is(err, reviews.ErrNotFound):
		failure(c, http.StatusNotFound)
	case errors.Is(err, reviews.ErrAlreadyVoted):
		failure(c, http.StatusConflict)
	default:
		failure(c, http.StatusInternalServerError)
	}
}
