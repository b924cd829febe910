package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhub/internal/service/milestone"
)

type MilestoneHandler struct {
	service *milestone.Service
	logger  *zap.Logger
}

func NewMilestoneHandler(service *milestone.Service, logger *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{service: service, logger: logger}
}

// List returns the owner's milestones, optionally filtered to one project
// via ?project=<id>.
func (h *MilestoneHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var projectID *int
	if raw := c.Query("project"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			// A non-numeric project id matches nothing.
			c.JSON(http.StatusOK, []any{})
			return
		}
		projectID = &id
	}

	milestones, err := h.service.List(c.Request.Context(), uid, projectID)
	if err != nil {
		h.logger.Error("Milestone list failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, milestones)
}

func (h *MilestoneHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req milestone.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	m, err := h.service.Create(c.Request.Context(), uid, req)
	if err != nil {
		h.respondMilestoneError(c, uid, err)
		return
	}

	c.JSON(http.StatusCreated, m)
}

func (h *MilestoneHandler) Update(c *gin.Context) {
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

	m, err := h.service.Update(c.Request.Context(), uid, id, payload)
	if err != nil {
		h.respondMilestoneError(c, uid, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *MilestoneHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uid, id); err != nil {
		h.respondMilestoneError(c, uid, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *MilestoneHandler) respondMilestoneError(c *gin.Context, uid int, err error) {
	switch {
	case errors.Is(err, milestone.ErrFieldsRequired), errors.Is(err, milestone.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, milestone.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"message": "milestone not found"})
	default:
		h.logger.Error("Milestone operation failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
	}
}
