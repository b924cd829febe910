package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhub/internal/service/project"
)

type ProjectHandler struct {
	service *project.Service
	logger  *zap.Logger
}

func NewProjectHandler(service *project.Service, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{service: service, logger: logger}
}

func (h *ProjectHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	projects, err := h.service.List(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("Project list failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req project.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	p, err := h.service.Create(c.Request.Context(), uid, req)
	if err != nil {
		h.respondProjectError(c, uid, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var payload map[string]json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	p, err := h.service.Update(c.Request.Context(), uid, id, payload)
	if err != nil {
		h.respondProjectError(c, uid, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// Delete removes the project; milestones cascade and tasks are unlinked.
func (h *ProjectHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uid, id); err != nil {
		h.respondProjectError(c, uid, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *ProjectHandler) respondProjectError(c *gin.Context, uid int, err error) {
	switch {
	case errors.Is(err, project.ErrNameRequired), errors.Is(err, project.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"message": "project not found"})
	default:
		h.logger.Error("Project operation failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
	}
}
