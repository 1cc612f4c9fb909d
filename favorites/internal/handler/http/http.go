// Package http implements the JSON HTTP surface of the favorites service.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/abhishek622/screenscene/favorites/internal/controller/favorites"
	"github.com/abhishek622/screenscene/favorites/pkg/model"
	"github.com/abhishek622/screenscene/internal/httputil"
	"github.com/gin-gonic/gin"
)

// Handler defines the favorites service HTTP handler.
type Handler struct {
	ctrl *favorites.Controller
}

// New creates a new favorites HTTP handler.
func New(ctrl *favorites.Controller) *Handler {
	return &Handler{ctrl}
}

// Register attaches the favorites routes to the given router group. The
// group is expected to carry the auth middleware; the user id comes from
// the bearer token, never from the request.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/favorites", h.List)
	rg.POST("/favorites", h.Add)
	rg.DELETE("/favorites", h.Clear)
	rg.GET("/favorites/count", h.Count)
	rg.GET("/favorites/export", h.Export)
	rg.POST("/favorites/import", h.Import)
	rg.GET("/favorites/:mediaType/:id", h.IsFavorite)
	rg.DELETE("/favorites/:mediaType/:id", h.Remove)
}

// addRequest shadows the item's numeric id so identifiers arriving as
// JSON strings are normalized before the identity key is computed.
type addRequest struct {
	model.FavoriteItem
	ID json.Number `json:"id"`
}

// List returns the user's favorites, optionally filtered by ?type=.
func (h *Handler) List(c *gin.Context) {
	userID := c.GetString(httputil.UserKey)
	if t := c.Query("type"); t != "" {
		mediaType, ok := parseMediaType(t)
		if !ok {
			failure(c, http.StatusBadRequest)
			return
		}
		items, _ := h.ctrl.ListByType(c.Request.Context(), userID, mediaType)
		c.JSON(http.StatusOK, gin.H{"success": true, "favorites": emptyIfNil(items)})
		return
	}
	items, _ := h.ctrl.List(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "favorites": emptyIfNil(items)})
}

// Add inserts a new favorite for the authenticated user.
func (h *Handler) Add(c *gin.Context) {
	userID := c.GetString(httputil.UserKey)
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest)
		return
	}
	id, err := req.ID.Int64()
	if err != nil {
		failure(c, http.StatusBadRequest)
		return
	}
	item := req.FavoriteItem
	item.ID = id
	if err := h.ctrl.Add(c.Request.Context(), userID, item); err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Remove deletes the favorite with the given identity key.
func (h *Handler) Remove(c *gin.Context) {
	userID := c.GetString(httputil.UserKey)
	mediaType, itemID, ok := parseIdentityKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	if err := h.ctrl.Remove(c.Request.Context(), userID, itemID, mediaType); err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// IsFavorite reports whether the given identity key is favorited.
func (h *Handler) IsFavorite(c *gin.Context) {
	userID := c.GetString(httputil.UserKey)
	mediaType, itemID, ok := parseIdentityKey(c)
	if !ok {
		failure(c, http.StatusBadRequest)
		return
	}
	fav := h.ctrl.IsFavorite(c.Request.Context(), userID, itemID, mediaType)
	c.JSON(http.StatusOK, gin.H{"success": true, "favorite": fav})
}

// Count returns the size of the user's favorites list.
func (h *Handler) Count(c *gin.Context) {
	userID := c.GetString(httputil.UserKey)
	c.JSON(http.StatusOK, gin.H{"success": true, "count": h.ctrl.Count(c.Request.Context(), userID)})
}

// Clear deletes the user's favorites record entirely.
func (h *Handler) Clear(c *gin.Context) {
	userID := c.GetString(httputil.UserKey)
	if err := h.ctrl.Clear(c.Request.Context(), userID); err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Export returns a backup snapshot of the user's favorites.
func (h *Handler) Export(c *gin.Context) {
	userID := c.GetString(httputil.UserKey)
	snapshot, err := h.ctrl.Export(c.Request.Context(), userID)
	if err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Import replaces the user's favorites with the posted snapshot.
func (h *Handler) Import(c *gin.Context) {
	userID := c.GetString(httputil.UserKey)
	var snapshot model.ExportSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		failure(c, http.StatusBadRequest)
		return
	}
	if err := h.ctrl.Import(c.Request.Context(), userID, snapshot); err != nil {
		failureFromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseIdentityKey(c *gin.Context) (model.MediaType, int64, bool) {
	mediaType, ok := parseMediaType(c.Param("mediaType"))
	if !ok {
		return "", 0, false
	}
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return mediaType, itemID, true
}

func parseMediaType(s string) (model.MediaType, bool) {
	switch model.MediaType(s) {
	case model.MediaTypeMovie, model.MediaTypeTV:
		return model.MediaType(s), true
	}
	return "", false
}

func emptyIfNil(items []model.FavoriteItem) []model.FavoriteItem {
	if items == nil {
		return []model.FavoriteItem{}
	}
	return items
}

// failure writes the generic failure payload the UI layer expects. The
// cause is not exposed beyond the status code.
func failure(c *gin.Context, status int) {
	c.JSON(status, gin.H{"success": false})
}

func failureFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, favorites.ErrInvalidArgument):
		failure(c, http.StatusBadRequest)
	case errors.Is(err, favorites.ErrExists):
		failure(c, http.StatusConflict)
	default:
		failure(c, http.StatusInternalServerError)
	}
}
