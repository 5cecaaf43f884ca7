package auditlogs

import (
	"context"

	"github.com/shipyardhq/shipyard/internal/server/models"
)

// Repository appends and lists audit trail rows. The tables are append-only;
// there are no update or delete operations.
type Repository interface {
	AppendSession(ctx context.Context, entry *models.SessionAuditLog) error
	AppendProject(ctx context.Context, entry *models.ProjectAuditLog) error
	ListSession(ctx context.Context, userID int64) ([]models.SessionAuditLog, error)
	ListProject(ctx context.Context, projectID int64) ([]models.ProjectAuditLog, error)
}
