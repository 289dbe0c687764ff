package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadtracker/internal/domain"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError maps a domain error onto the error envelope. Anything that is not
// a known domain error becomes a 500 and is attached to the gin context so the
// error logger picks it up.
func FromError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var serr *domain.InvalidStateError

	switch {
	case errors.As(err, &verr):
		ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid input", verr.Fields)
	case errors.As(err, &serr):
		Error(c, http.StatusConflict, "INVALID_STATE", serr.Error())
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, domain.ErrStorage):
		_ = c.Error(err)
		Error(c, http.StatusServiceUnavailable, "STORAGE_ERROR", "Record store unavailable")
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}
