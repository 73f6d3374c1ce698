package server

import (
	"net/http"

	"github.com/Luismorlan/newsreader/auth"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, auth.ErrMissingFields.Error())
		return
	}

	_, err := s.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrUserExists):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case err != nil:
		abortWithInternalError(c, err, "Registration failed")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Registered"})
	}
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := s.Auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case err != nil:
		abortWithInternalError(c, err, "Login failed")
	default:
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
