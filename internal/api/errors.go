package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"minecontrol-backend/internal/parse"
	"minecontrol-backend/internal/store"
	"minecontrol-backend/internal/tracker"
)

const codeValidation = "ValidationError"

// respondError maps a domain error to its HTTP response. Unknown errors are logged
// and reported with a generic message.
func respondError(c *gin.Context, err error) {
	if code := tracker.Code(err); code != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": code})
		return
	}

	switch {
	case errors.Is(err, parse.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, store.ErrUniqueViolation):
		c.JSON(http.StatusConflict, gin.H{"error": "a record with the same unique value already exists", "code": "Conflict"})
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondBindError reports a malformed or invalid request body.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := parse.ID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}
