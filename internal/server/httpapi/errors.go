package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/server/models"
)

// writeError maps service errors onto status codes. ErrorNoPrincipal is
// deliberately a 500: a guarded operation ran without a principal, which
// routing should have made impossible.
func (s *Server) writeError(c *gin.Context, err error) {

	var transition *models.TransitionError

	switch {
	case errors.Is(err, common.ErrorMalformedInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error":            transition.Error(),
			"current_status":   transition.Current,
			"attempted_status": transition.Attempted,
		})
	case errors.Is(err, common.ErrorIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
