package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// paramID parses the :id path segment. Non-numeric ids are a 400, written
// before any storage access.
func (s *Server) paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return 0, false
	}
	return id, true
}

// optionalForm distinguishes an absent field from an empty one, so updates
// can null a field out explicitly.
func optionalForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func (s *Server) handleProjectCreate(c *gin.Context) {

	name := optionalForm(c, "name")
	description := optionalForm(c, "description")
	url := optionalForm(c, "url")

	project, err := s.projectService.Create(c.Request.Context(), principal(c), name, description, url)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, renderProject(project))
}

func (s *Server) handleProjectGet(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	overview, devlogs, err := s.projectService.GetOwned(c.Request.Context(), principal(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": renderOverview(overview),
		"devlogs": renderDevlogs(devlogs),
	})
}

func (s *Server) handleProjectUpdate(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	name := optionalForm(c, "name")
	description := optionalForm(c, "description")
	url := optionalForm(c, "url")

	if err := s.projectService.Update(c.Request.Context(), principal(c), id, name, description, url); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleProjectDelete(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	if err := s.projectService.Delete(c.Request.Context(), principal(c), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleProjectSubmit(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	if err := s.projectService.Submit(c.Request.Context(), principal(c), id); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
