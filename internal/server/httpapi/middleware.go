package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/server/models"
)

const principalKey = "principal"

// sessionMiddleware resolves the session cookie into a principal for the
// request. An absent, unknown, or expired session leaves the request
// anonymous; route groups decide whether that is acceptable.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := s.userService.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, common.ErrorUnauthorized) {
				s.logger.Error(c.Request.Context(), "session resolve failed", "error", err.Error())
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Next()
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// requirePrincipal rejects anonymous requests before they reach a handler.
func (s *Server) requirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(principalKey); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// principal returns the resolved user, or nil for an anonymous request.
// Guarded services treat nil as ErrorNoPrincipal, so a routing slip that
// bypasses requirePrincipal surfaces as a 500 rather than silently passing.
func principal(c *gin.Context) *models.User {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
