// ABOUTME: Maps model error kinds to HTTP status codes.
// ABOUTME: Unknown errors become 500 and are logged; the rest go back to the caller as-is.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/jacktrack/internal/models"
	"go.uber.org/zap"
)

// statusFor picks the response status for an error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAuthorization), errors.Is(err, models.ErrOwnership):
		return http.StatusForbidden
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrReferentialIntegrity),
		errors.Is(err, models.ErrAmbiguous):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// badRequest reports a body that could not be decoded.
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
