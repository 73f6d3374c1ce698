package server

import (
	"io"
	"net/http"

	"github.com/Luismorlan/newsreader/model"
	"github.com/Luismorlan/newsreader/push"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (s *Server) pushPublicKey(c *gin.Context) {
	key, err := s.Push.PublicKey()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": key})
}

func (s *Server) pushSubscribe(c *gin.Context) {
	var sub model.PushSubscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		abortWithError(c, http.StatusBadRequest, push.ErrInvalidSubscription.Error())
		return
	}

	err := s.Push.Subscribe(c.Request.Context(), &sub)
	switch {
	case errors.Is(err, push.ErrInvalidSubscription):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case err != nil:
		abortWithInternalError(c, err, "Failed to save subscription")
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func (s *Server) pushUnsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	// Unsubscribing is best effort, a bad body still answers ok.
	_ = c.ShouldBindJSON(&req)

	if err := s.Push.Unsubscribe(c.Request.Context(), req.Endpoint); err != nil {
		abortWithInternalError(c, err, "Failed to remove subscription")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) pushBroadcast(c *gin.Context) {
	var n push.Notification
	// An empty body broadcasts the default notification.
	if err := c.ShouldBindJSON(&n); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "invalid notification")
		return
	}

	sent, err := s.Push.Broadcast(c.Request.Context(), n)
	switch {
	case errors.Is(err, push.ErrNotConfigured):
		abortWithError(c, http.StatusInternalServerError, err.Error())
	case err != nil:
		abortWithInternalError(c, err, "Failed to broadcast")
	default:
		c.JSON(http.StatusOK, gin.H{"sent": sent})
	}
}
