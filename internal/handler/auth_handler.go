package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhub/internal/model"
	"taskhub/internal/service/auth"
)

type AuthHandler struct {
	service *auth.Service
	logger  *zap.Logger
}

func NewAuthHandler(service *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// userPayload is the identity subset returned next to a token.
func userPayload(u *model.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"displayName": u.DisplayName,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	u, token, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields),
			errors.Is(err, auth.ErrEmailDomain),
			errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			h.logger.Error("Register failed", zap.Error(err))
			serverError(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": userPayload(u)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	u, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid email or password"})
		default:
			h.logger.Error("Login failed", zap.Error(err))
			serverError(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": userPayload(u)})
}

// Me returns the authenticated user's profile, password hash excluded.
func (h *AuthHandler) Me(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		h.logger.Error("Me failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) UpdateSettings(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req auth.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	u, err := h.service.UpdateSettings(c.Request.Context(), uid, req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidTheme):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, pgx.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		default:
			h.logger.Error("UpdateSettings failed", zap.Int("user_id", uid), zap.Error(err))
			serverError(c)
		}
		return
	}

	c.JSON(http.StatusOK, u)
}
