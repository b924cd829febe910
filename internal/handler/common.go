package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where the auth middleware stores the authenticated
// user id.
const ContextUserIDKey = "user_id"

// ContextEmailKey is where the auth middleware stores the authenticated
// email.
const ContextEmailKey = "email"

func userID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return 0, false
	}
	return v.(int), true
}

// pathID parses the :id path parameter. A non-numeric id cannot name any
// entity, so it reads as not found rather than a validation error.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return 0, false
	}
	return id, true
}

func serverError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
