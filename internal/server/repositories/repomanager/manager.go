package repomanager

import (
	"context"
	"database/sql"

	"github.com/shipyardhq/shipyard/internal/dbx"
	"github.com/shipyardhq/shipyard/internal/server/repositories/auditlogs"
	"github.com/shipyardhq/shipyard/internal/server/repositories/devlogs"
	"github.com/shipyardhq/shipyard/internal/server/repositories/projects"
	"github.com/shipyardhq/shipyard/internal/server/repositories/reviews"
	"github.com/shipyardhq/shipyard/internal/server/repositories/sessions"
	"github.com/shipyardhq/shipyard/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX. Services bind to the
// raw *sql.DB for single statements and to a dbx.WithTx handle when a
// workflow step must be atomic.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Projects(db dbx.DBTX) projects.Repository
	Devlogs(db dbx.DBTX) devlogs.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	AuditLogs(db dbx.DBTX) auditlogs.Repository
}
