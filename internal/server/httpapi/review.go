package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/server/models"
)

func (s *Server) handleReviewQueue(c *gin.Context) {

	list, err := s.reviewService.Queue(c.Request.Context(), principal(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": renderOverviews(list)})
}

func (s *Server) handleReviewList(c *gin.Context) {

	filter, err := parseListFilter(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	list, err := s.reviewService.List(c.Request.Context(), principal(c), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": renderOverviews(list)})
}

func (s *Server) handleReviewDetail(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	detail, err := s.reviewService.Detail(c.Request.Context(), principal(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":    renderOverview(detail.Overview),
		"devlogs":    renderDevlogs(detail.Devlogs),
		"t1_reviews": renderT1Reviews(detail.T1History),
		"t2_reviews": renderT2Reviews(detail.T2History),
	})
}

func (s *Server) handleReviewT1(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	action, err := models.ParseT1Action(c.PostForm("action"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback := optionalForm(c, "feedback")
	notes := optionalForm(c, "notes")

	if err := s.reviewService.DecideT1(c.Request.Context(), principal(c), id, action, feedback, notes); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleReviewT2(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	multiplier, err := strconv.ParseFloat(c.PostForm("multiplier"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multiplier"})
		return
	}

	feedback := optionalForm(c, "feedback")
	notes := optionalForm(c, "notes")

	if err := s.reviewService.ScoreT2(c.Request.Context(), principal(c), id, multiplier, feedback, notes); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleReviewFinalize(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	if err := s.reviewService.Finalize(c.Request.Context(), principal(c), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleProjectAudit(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	entries, err := s.reviewService.ProjectAuditTrail(c.Request.Context(), principal(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": renderProjectAudit(entries)})
}

// handleSessionAudit lists session events for the user named in the form,
// defaulting to the caller's own.
func (s *Server) handleSessionAudit(c *gin.Context) {

	actor := principal(c)
	if actor == nil {
		s.writeError(c, common.ErrorNoPrincipal)
		return
	}

	userID := actor.ID
	if raw := c.Query("user"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		userID = parsed
	}

	entries, err := s.reviewService.SessionAuditTrail(c.Request.Context(), actor, userID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": renderSessionAudit(entries)})
}
