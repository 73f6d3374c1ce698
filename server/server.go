package server

import (
	"net/http"

	"github.com/Luismorlan/newsreader/auth"
	"github.com/Luismorlan/newsreader/newsapi"
	"github.com/Luismorlan/newsreader/preference"
	"github.com/Luismorlan/newsreader/push"
	"github.com/Luismorlan/newsreader/recommender"
	"github.com/Luismorlan/newsreader/server/middlewares"
	"github.com/Luismorlan/newsreader/store"
	"github.com/Luismorlan/newsreader/tracker"
	. "github.com/Luismorlan/newsreader/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	errMissingNewsKey     = "NEWSAPI_KEY not set in server. See .env.example"
	errMissingNewsKeyRecs = "NEWSAPI_KEY not set"
)

// Server holds every service the HTTP routes delegate to. It has no state of
// its own; handlers only translate between JSON and service calls.
type Server struct {
	Store       store.Store
	Auth        *auth.Service
	Tracker     *tracker.Tracker
	Preferences *preference.Service
	Recommender *recommender.Engine
	News        *newsapi.Client
	Push        *push.Service

	// Optional. Applied to /api/auth routes when set.
	AuthRateLimit gin.HandlerFunc
	// Optional. Built frontend served under /app when set.
	StaticDir string
	// Optional. Extra global middlewares, e.g. tracing.
	Middlewares []gin.HandlerFunc
}

// Router builds the gin engine with every route mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.Logger())
	router.Use(cors.Default())
	router.Use(s.Middlewares...)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "News Reader Backend Running")
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if s.StaticDir != "" {
		router.Static("/app", s.StaticDir)
	}

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	if s.AuthRateLimit != nil {
		authGroup.Use(s.AuthRateLimit)
	}
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	api.GET("/news", s.news)
	api.GET("/trending", s.trending)

	pushGroup := api.Group("/push")
	pushGroup.GET("/public-key", s.pushPublicKey)
	pushGroup.POST("/subscribe", s.pushSubscribe)
	pushGroup.POST("/unsubscribe", s.pushUnsubscribe)
	pushGroup.POST("/broadcast", s.pushBroadcast)

	authed := api.Group("", middlewares.JWT(s.Auth))
	authed.GET("/bookmarks", s.listBookmarks)
	authed.POST("/bookmarks", s.createBookmark)
	authed.DELETE("/bookmarks/:id", s.deleteBookmark)
	authed.GET("/history", s.listHistory)
	authed.POST("/history", s.trackView)
	authed.GET("/preferences", s.getPreferences)
	authed.PUT("/preferences", s.updatePreferences)
	authed.GET("/recommendations", s.recommendations)

	return router
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// abortWithInternalError logs the cause and hides it from the client.
func abortWithInternalError(c *gin.Context, err error, msg string) {
	Log.WithError(err).WithField("path", c.FullPath()).Error(msg)
	abortWithError(c, http.StatusInternalServerError, msg)
}
