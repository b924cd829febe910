package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"taskhub/internal/repository"
	"taskhub/internal/service/task"
)

type TaskHandler struct {
	service *task.Service
	logger  *zap.Logger
}

func NewTaskHandler(service *task.Service, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

// List runs the query engine. All parameters are optional; unparsable ones
// degrade per the documented rules instead of erroring.
func (h *TaskHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	q := repository.TaskQuery{
		UserID:   uid,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Project:  c.Query("project"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Sort:     c.Query("sort"),
		Page:     c.Query("page"),
		Limit:    c.Query("limit"),
	}

	tasks, err := h.service.Query(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("Task query failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req task.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	t, err := h.service.Create(c.Request.Context(), uid, req)
	if err != nil {
		h.respondTaskError(c, uid, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) Update(c *gin.Context) {
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

	t, err := h.service.Update(c.Request.Context(), uid, id, payload)
	if err != nil {
		h.respondTaskError(c, uid, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Complete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	t, err := h.service.Complete(c.Request.Context(), uid, id)
	if err != nil {
		h.respondTaskError(c, uid, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uid, id); err != nil {
		h.respondTaskError(c, uid, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *TaskHandler) Stats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("Task stats failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Calendar lists tasks due in one month; year and month default to the
// current ones.
func (h *TaskHandler) Calendar(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	now := time.Now()
	year := now.Year()
	month := now.Month()

	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid year"})
			return
		}
		year = y
	}
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid month"})
			return
		}
		month = time.Month(m)
	}

	tasks, err := h.service.Calendar(c.Request.Context(), uid, year, month)
	if err != nil {
		h.logger.Error("Task calendar failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) respondTaskError(c *gin.Context, uid int, err error) {
	switch {
	case errors.Is(err, task.ErrTitleRequired), errors.Is(err, task.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, task.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
	default:
		h.logger.Error("Task operation failed", zap.Int("user_id", uid), zap.Error(err))
		serverError(c)
	}
}
