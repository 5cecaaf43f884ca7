package reviews

import (
	"context"

	"github.com/shipyardhq/shipyard/internal/server/models"
)

// Repository records review decisions. Rows are append-only history; the
// project's current status is owned by the projects table, not derived from
// here.
type Repository interface {
	CreateT1(ctx context.Context, review *models.T1Review) error
	CreateT2(ctx context.Context, review *models.T2Review) error
	ListT1ByProject(ctx context.Context, projectID int64) ([]models.T1Review, error)
	ListT2ByProject(ctx context.Context, projectID int64) ([]models.T2Review, error)
}
