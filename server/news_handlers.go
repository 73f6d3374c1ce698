package server

import (
	"net/http"

	"github.com/Luismorlan/newsreader/newsapi"
	"github.com/Luismorlan/newsreader/server/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	newsPageSize    = 20
	defaultCountry  = "us"
	defaultCategory = "general"
)

func (s *Server) news(c *gin.Context) {
	if !s.News.Configured() {
		abortWithError(c, http.StatusInternalServerError, errMissingNewsKey)
		return
	}

	resp, err := s.News.TopHeadlines(c.Request.Context(), newsapi.TopHeadlinesParams{
		Category: c.DefaultQuery("category", defaultCategory),
		Query:    c.Query("q"),
		Language: "en",
		PageSize: newsPageSize,
	})
	if err != nil {
		abortWithInternalError(c, err, "Failed to fetch news")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) trending(c *gin.Context) {
	if !s.News.Configured() {
		abortWithError(c, http.StatusInternalServerError, errMissingNewsKey)
		return
	}

	resp, tier, err := s.News.Trending(
		c.Request.Context(),
		c.DefaultQuery("country", defaultCountry),
		c.Query("category"),
	)
	if err != nil {
		abortWithInternalError(c, err, "Failed to fetch trending")
		return
	}
	c.Header("X-Trending-Tier", tier.String())
	c.JSON(http.StatusOK, resp)
}

func (s *Server) recommendations(c *gin.Context) {
	result, err := s.Recommender.Recommend(c.Request.Context(), middlewares.UserID(c))
	switch {
	case errors.Is(err, newsapi.ErrMissingAPIKey):
		abortWithError(c, http.StatusInternalServerError, errMissingNewsKeyRecs)
	case err != nil:
		abortWithInternalError(c, err, "Failed to fetch recommendations")
	default:
		c.JSON(http.StatusOK, result)
	}
}
