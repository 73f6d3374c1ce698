package server

import (
	"net/http"

	"github.com/Luismorlan/newsreader/model"
	"github.com/Luismorlan/newsreader/preference"
	"github.com/Luismorlan/newsreader/server/middlewares"
	"github.com/Luismorlan/newsreader/store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// articleRequest is the body of bookmark and history writes.
type articleRequest struct {
	Article *model.Article `json:"article"`
}

func bindArticle(c *gin.Context) (*model.Article, bool) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Article == nil {
		abortWithError(c, http.StatusBadRequest, "article required")
		return nil, false
	}
	return req.Article, true
}

func (s *Server) listBookmarks(c *gin.Context) {
	bookmarks, err := s.Store.ListBookmarks(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		abortWithInternalError(c, err, "Failed to load bookmarks")
		return
	}
	c.JSON(http.StatusOK, bookmarks)
}

func (s *Server) createBookmark(c *gin.Context) {
	article, ok := bindArticle(c)
	if !ok {
		return
	}

	bookmark := &model.Bookmark{
		UserID:  middlewares.UserID(c),
		Article: *article,
	}
	if err := s.Store.CreateBookmark(c.Request.Context(), bookmark); err != nil {
		abortWithInternalError(c, err, "Failed to save bookmark")
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

func (s *Server) deleteBookmark(c *gin.Context) {
	err := s.Store.DeleteBookmark(c.Request.Context(), middlewares.UserID(c), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "not found")
	case err != nil:
		abortWithInternalError(c, err, "Failed to delete bookmark")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	}
}

func (s *Server) listHistory(c *gin.Context) {
	history, err := s.Tracker.History(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		abortWithInternalError(c, err, "Failed to load history")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s *Server) trackView(c *gin.Context) {
	article, ok := bindArticle(c)
	if !ok {
		return
	}

	if err := s.Tracker.TrackView(c.Request.Context(), middlewares.UserID(c), *article); err != nil {
		abortWithInternalError(c, err, "Failed to track view")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tracked"})
}

func (s *Server) getPreferences(c *gin.Context) {
	prefs, err := s.Preferences.Get(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		abortWithInternalError(c, err, "Failed to load preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) updatePreferences(c *gin.Context) {
	var update preference.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid preferences")
		return
	}

	if _, err := s.Preferences.Update(c.Request.Context(), middlewares.UserID(c), update); err != nil {
		abortWithInternalError(c, err, "Failed to update preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}
