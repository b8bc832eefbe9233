// Package handlers holds the dev backend's HTTP handlers.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"cleancity/api"
	"cleancity/devbackend/database"
	"cleancity/devbackend/email"
	"cleancity/devbackend/middleware"
)

type Handlers struct {
	svc          *database.Service
	mail         *email.Sender
	mediaDir     string
	baseURL      string
	resetURLBase string
}

func NewHandlers(svc *database.Service, mail *email.Sender, mediaDir, baseURL, resetURLBase string) *Handlers {
	return &Handlers{
		svc:          svc,
		mail:         mail,
		mediaDir:     mediaDir,
		baseURL:      baseURL,
		resetURLBase: resetURLBase,
	}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) SignUp(c *gin.Context) {
	var req api.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email address is badly formatted"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "password is invalid: must be at least 6 characters"})
		return
	}

	user, token, err := h.svc.CreateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
			return
		}
		log.Errorf("Sign-up failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create account"})
		return
	}

	c.JSON(http.StatusOK, api.AuthResponse{
		UserID: user.ID,
		Token:  token,
	})
}

func (h *Handlers) Login(c *gin.Context) {
	var req api.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	user, token, err := h.svc.Authenticate(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, database.ErrNoUser) || errors.Is(err, database.ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: err.Error()})
			return
		}
		log.Errorf("Login failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to sign in"})
		return
	}

	c.JSON(http.StatusOK, api.AuthResponse{
		UserID:    user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Token:     token,
	})
}

// Reset always answers 200 so the endpoint does not leak which addresses
// have accounts.
func (h *Handlers) Reset(c *gin.Context) {
	var req api.ResetArgs
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.svc.UserByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, database.ErrNoUser) {
			log.Errorf("Reset lookup failed for %s: %v", req.Email, err)
		}
		c.Status(http.StatusOK)
		return
	}

	resetURL := fmt.Sprintf("%s?uid=%s", h.resetURLBase, user.ID)
	if err := h.mail.SendPasswordReset(user.Email, resetURL); err != nil {
		log.Errorf("Failed to send reset email to %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to send reset email"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req api.ProfileArgs
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	userID := c.GetString(middleware.UserIDKey)
	if err := h.svc.UpdateName(c.Request.Context(), userID, strings.TrimSpace(req.Name)); err != nil {
		log.Errorf("Name update failed for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update profile"})
		return
	}

	c.Status(http.StatusOK)
}
