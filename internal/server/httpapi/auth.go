package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/server/auth"
)

const stateTokenValidity = 10 * time.Minute

// handleLogin starts the OAuth round trip: signs a short-lived state token
// and redirects the browser to the provider.
func (s *Server) handleLogin(c *gin.Context) {

	nonce, err := common.MakeRandHexString(16)
	if err != nil {
		s.writeError(c, err)
		return
	}

	state, err := auth.GenerateStateToken(nonce, []byte(s.config.SecretKey), stateTokenValidity)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, s.provider.AuthURL(state))
}

// handleCallback finishes the round trip: rejects forged state, exchanges
// the code for a verified identity, and issues the session cookie.
func (s *Server) handleCallback(c *gin.Context) {

	state := c.Query("state")
	if _, err := auth.ValidateStateToken(state, []byte(s.config.SecretKey)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	ident, err := s.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		s.writeError(c, err)
		return
	}

	user, session, err := s.userService.Login(c.Request.Context(), ident)
	if err != nil {
		s.writeError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(sessionCookieName, session.ID, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"user_id": user.ID,
		"name":    user.Name,
	})
}

// handleLogout invalidates the session if one is present. Always succeeds.
func (s *Server) handleLogout(c *gin.Context) {

	token, err := c.Cookie(sessionCookieName)
	if err == nil && token != "" {
		if err := s.userService.Logout(c.Request.Context(), token); err != nil {
			s.writeError(c, err)
			return
		}
	}

	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
