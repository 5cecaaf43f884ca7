package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/dbx"
	"github.com/shipyardhq/shipyard/internal/server/guard"
	"github.com/shipyardhq/shipyard/internal/server/models"
	"github.com/shipyardhq/shipyard/internal/server/repositories/projects"
	"github.com/shipyardhq/shipyard/internal/server/repositories/repomanager"
)

func errNotOwner(projectID int64) error {
	return fmt.Errorf("%w: project %d belongs to another user", common.ErrorForbidden, projectID)
}

// ProjectService covers the owner-facing side of a project's life: create,
// edit, soft delete, and the submit/resubmit transitions into review.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{db: db, repomanager: m}
}

// Create starts a new project in the building state and writes the create
// audit row with a snapshot of the free-text fields.
func (s *ProjectService) Create(ctx context.Context, actor *models.User, name, description, url *string) (*models.Project, error) {

	if err := guard.RequireUser(actor); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		UserID:      actor.ID,
		Name:        name,
		Description: description,
		URL:         url,
		Status:      models.StatusBuilding,
		CreatedAt:   now,
	}

	err := withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {

		var err error
		project, err = s.repomanager.Projects(tx).Create(ctx, project)
		if err != nil {
			return err
		}

		entry := &models.ProjectAuditLog{
			UserID:       actor.ID,
			ActionUserID: actor.ID,
			ProjectID:    project.ID,
			Type:         models.ProjectAuditCreate,
			Name:         name,
			Description:  description,
			URL:          url,
			Timestamp:    now,
		}
		return s.repomanager.AuditLogs(tx).AppendProject(ctx, entry)
	})

	if err != nil {
		return nil, err
	}

	return project, nil
}

// Update rewrites the free-text fields of the actor's own project.
func (s *ProjectService) Update(ctx context.Context, actor *models.User, id int64, name, description, url *string) error {

	if err := guard.RequireUser(actor); err != nil {
		return err
	}

	now := time.Now()

	return withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {

		repo := s.repomanager.Projects(tx)

		ok, err := repo.UpdateFields(ctx, id, actor.ID, name, description, url, now)
		if err != nil {
			return err
		}
		if !ok {
			return s.explainMiss(ctx, repo, id, actor)
		}

		entry := &models.ProjectAuditLog{
			UserID:       actor.ID,
			ActionUserID: actor.ID,
			ProjectID:    id,
			Type:         models.ProjectAuditUpdate,
			Name:         name,
			Description:  description,
			URL:          url,
			Timestamp:    now,
		}
		return s.repomanager.AuditLogs(tx).AppendProject(ctx, entry)
	})
}

// Delete marks the actor's own project deleted. Deletion is logical and,
// from the application's point of view, irreversible.
func (s *ProjectService) Delete(ctx context.Context, actor *models.User, id int64) error {

	if err := guard.RequireUser(actor); err != nil {
		return err
	}

	now := time.Now()

	return withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {

		repo := s.repomanager.Projects(tx)

		ok, err := repo.SoftDelete(ctx, id, actor.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return s.explainMiss(ctx, repo, id, actor)
		}

		entry := &models.ProjectAuditLog{
			UserID:       actor.ID,
			ActionUserID: actor.ID,
			ProjectID:    id,
			Type:         models.ProjectAuditDelete,
			Timestamp:    now,
		}
		return s.repomanager.AuditLogs(tx).AppendProject(ctx, entry)
	})
}

// explainMiss turns a zero-rows conditional write into the right error:
// missing or deleted rows read as not found, rows owned by someone else as
// forbidden.
func (s *ProjectService) explainMiss(ctx context.Context, repo projects.Repository, id int64, actor *models.User) error {
	project, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project.UserID != actor.ID {
		return errNotOwner(id)
	}
	return common.ErrorInternal
}

// Submit moves the actor's own project into review. Legal only from building
// or rejected; rejected_locked stays locked forever.
func (s *ProjectService) Submit(ctx context.Context, actor *models.User, id int64) error {

	if err := guard.RequireUser(actor); err != nil {
		return err
	}

	return withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := transitionProject(ctx, tx, s.repomanager, actor, id, models.StatusSubmitted, true, time.Now())
		return err
	})
}

// GetOwned returns the actor's project with aggregates plus its devlogs.
func (s *ProjectService) GetOwned(ctx context.Context, actor *models.User, id int64) (*models.ProjectOverview, []models.Devlog, error) {

	if err := guard.RequireUser(actor); err != nil {
		return nil, nil, err
	}

	overview, err := s.repomanager.Projects(s.db).GetOverview(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if overview.Project.UserID != actor.ID {
		return nil, nil, errNotOwner(id)
	}

	logs, err := s.repomanager.Devlogs(s.db).ListByProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return overview, logs, nil
}

// ListOwned returns all of the actor's non-deleted projects with aggregates.
func (s *ProjectService) ListOwned(ctx context.Context, actor *models.User) ([]models.ProjectOverview, error) {

	if err := guard.RequireUser(actor); err != nil {
		return nil, err
	}

	return s.repomanager.Projects(s.db).List(ctx, projects.Filter{UserIDs: []int64{actor.ID}})
}
