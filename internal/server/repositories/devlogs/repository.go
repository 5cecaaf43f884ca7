package devlogs

import (
	"context"

	"github.com/shipyardhq/shipyard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, devlog *models.Devlog) (*models.Devlog, error)
	// ListByProject returns the project's non-deleted devlogs oldest first.
	ListByProject(ctx context.Context, projectID int64) ([]models.Devlog, error)
}
