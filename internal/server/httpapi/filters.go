package httpapi

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/server/models"
	"github.com/shipyardhq/shipyard/internal/server/repositories/projects"
)

// parseListFilter reads the repeatable status/project/user form fields of
// the listing endpoint. Any malformed value fails the whole request before
// a query runs; an absent field leaves its dimension unrestricted.
func parseListFilter(c *gin.Context) (projects.Filter, error) {

	var filter projects.Filter

	for _, raw := range c.PostFormArray("status") {
		status, err := models.ParseProjectStatus(raw)
		if err != nil {
			return projects.Filter{}, fmt.Errorf("%w: %v", common.ErrorMalformedInput, err)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	ids, err := parseIDList(c.PostFormArray("project"), "project")
	if err != nil {
		return projects.Filter{}, err
	}
	filter.ProjectIDs = ids

	ids, err = parseIDList(c.PostFormArray("user"), "user")
	if err != nil {
		return projects.Filter{}, err
	}
	filter.UserIDs = ids

	return filter, nil
}

func parseIDList(values []string, field string) ([]int64, error) {
	var out []int64
	for _, raw := range values {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s id %q", common.ErrorMalformedInput, field, raw)
		}
		out = append(out, id)
	}
	return out, nil
}
