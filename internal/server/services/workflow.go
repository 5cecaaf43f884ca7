// Package services implements the application layer: login/session handling,
// owner project operations, the review workflow engine, and devlogs. Services
// hold the *sql.DB plus a RepositoryManager so every workflow step can run
// either as a single statement or inside dbx.WithTx.
package services

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/shipyardhq/shipyard/internal/dbx"
	"github.com/shipyardhq/shipyard/internal/server/models"
	"github.com/shipyardhq/shipyard/internal/server/repositories/repomanager"
)

// transitionProject moves a project to the given status inside tx and appends
// the status_change audit row. The legal source states come from the closed
// transition table; the conditional UPDATE's row match is the sole concurrency
// control, so zero rows affected is treated as an authoritative rejection even
// after the preflight read passed.
//
// When requireOwner is set the actor must own the project; reviewer-driven
// transitions pass false and rely on capability guards at the service entry.
func transitionProject(ctx context.Context, tx dbx.DBTX, rm repomanager.RepositoryManager, actor *models.User, projectID int64, to models.ProjectStatus, requireOwner bool, now time.Time) (*models.Project, error) {

	from := models.TransitionSources(to)

	projectRepo := rm.Projects(tx)

	project, err := projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if requireOwner && project.UserID != actor.ID {
		return nil, errNotOwner(project.ID)
	}

	if !slices.Contains(from, project.Status) {
		return nil, &models.TransitionError{Current: project.Status, Attempted: to}
	}

	var ownerID *int64
	if requireOwner {
		ownerID = &actor.ID
	}

	ok, err := projectRepo.UpdateStatus(ctx, projectID, ownerID, from, to, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race: re-read for an accurate error. The project may also
		// have been deleted between the read and the update.
		current, err := projectRepo.GetByID(ctx, projectID)
		if err != nil {
			return nil, err
		}
		return nil, &models.TransitionError{Current: current.Status, Attempted: to}
	}

	oldStatus := project.Status
	newStatus := to

	entry := &models.ProjectAuditLog{
		UserID:       project.UserID,
		ActionUserID: actor.ID,
		ProjectID:    project.ID,
		Type:         models.ProjectAuditStatusChange,
		OldStatus:    &oldStatus,
		NewStatus:    &newStatus,
		Timestamp:    now,
	}
	if err := rm.AuditLogs(tx).AppendProject(ctx, entry); err != nil {
		return nil, err
	}

	project.Status = to
	project.UpdatedAt = now
	return project, nil
}

// withTx is a thin alias so service methods read uniformly.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, db, nil, fn)
}
