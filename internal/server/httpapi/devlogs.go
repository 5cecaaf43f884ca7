package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleDevlogList(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	devlogs, err := s.devlogService.ListForProject(c.Request.Context(), principal(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"devlogs": renderDevlogs(devlogs)})
}

func (s *Server) handleDevlogCreate(c *gin.Context) {

	id, ok := s.paramID(c)
	if !ok {
		return
	}

	timeSpent, err := strconv.ParseInt(c.PostForm("time_spent"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time_spent"})
		return
	}

	devlog, err := s.devlogService.Add(c.Request.Context(), principal(c), id,
		c.PostForm("description"), timeSpent, c.PostForm("image"), optionalForm(c, "model"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, devlogJSON{
		ID:          devlog.ID,
		UserID:      devlog.UserID,
		ProjectID:   devlog.ProjectID,
		Description: devlog.Description,
		TimeSpent:   devlog.TimeSpent,
		Image:       devlog.Image,
		Model:       devlog.Model,
		CreatedAt:   devlog.CreatedAt,
	})
}

// handleDevlogPresign hands the browser a presigned PUT URL; the returned
// key goes into the devlog's image field after upload.
func (s *Server) handleDevlogPresign(c *gin.Context) {

	key, url, err := s.devlogService.PresignImageUpload(c.Request.Context(), principal(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}
