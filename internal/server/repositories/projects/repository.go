package projects

import (
	"context"
	"time"

	"github.com/shipyardhq/shipyard/internal/server/models"
)

// Filter narrows the reviewer listing. Each dimension is a set; an empty set
// means no restriction on that dimension, never "match nothing".
type Filter struct {
	Statuses   []models.ProjectStatus
	ProjectIDs []int64
	UserIDs    []int64
}

type Repository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	// GetByID returns the bare row; soft-deleted projects read as not found.
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	// UpdateFields rewrites name/description/url when the project belongs to
	// ownerID and is not deleted, bumping updated_at. Returns false when no
	// row matched.
	UpdateFields(ctx context.Context, id, ownerID int64, name, description, url *string, now time.Time) (bool, error)
	// SoftDelete marks the owner's project deleted. Returns false when no row
	// matched.
	SoftDelete(ctx context.Context, id, ownerID int64, now time.Time) (bool, error)
	// UpdateStatus performs the conditional transition: the row must be
	// non-deleted, in one of the "from" statuses, and owned by ownerID when
	// ownerID is non-nil. A false return is the authoritative rejection; the
	// caller must not infer success from anything else.
	UpdateStatus(ctx context.Context, id int64, ownerID *int64, from []models.ProjectStatus, to models.ProjectStatus, now time.Time) (bool, error)
	// GetOverview returns the project with owner info and devlog aggregates.
	GetOverview(ctx context.Context, id int64) (*models.ProjectOverview, error)
	// List returns overviews for every non-deleted project matching the
	// conjunction of the filter's dimensions.
	List(ctx context.Context, filter Filter) ([]models.ProjectOverview, error)
}
