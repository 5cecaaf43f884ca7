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

// ReviewService is the reviewer-facing side of the workflow: the T1 queue,
// filtered listings, triage and scoring decisions, finalization, and the
// audit trails.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

// ReviewDetail is everything the reviewer detail view needs about one
// project.
type ReviewDetail struct {
	Overview  *models.ProjectOverview
	Devlogs   []models.Devlog
	T1History []models.T1Review
	T2History []models.T2Review
}

// Queue returns the submitted projects awaiting triage, with aggregates.
func (s *ReviewService) Queue(ctx context.Context, actor *models.User) ([]models.ProjectOverview, error) {

	if err := guard.Require(actor, guard.CapT1Review); err != nil {
		return nil, err
	}

	return s.repomanager.Projects(s.db).List(ctx, projects.Filter{
		Statuses: []models.ProjectStatus{models.StatusSubmitted},
	})
}

// List returns overviews matching the conjunction of the filter dimensions.
// An empty dimension is unrestricted.
func (s *ReviewService) List(ctx context.Context, actor *models.User, filter projects.Filter) ([]models.ProjectOverview, error) {

	if err := guard.Require(actor, guard.CapT1Review); err != nil {
		return nil, err
	}

	return s.repomanager.Projects(s.db).List(ctx, filter)
}

// Detail returns one project with aggregates, devlogs, and review history.
func (s *ReviewService) Detail(ctx context.Context, actor *models.User, projectID int64) (*ReviewDetail, error) {

	if err := guard.Require(actor, guard.CapT1Review); err != nil {
		return nil, err
	}

	overview, err := s.repomanager.Projects(s.db).GetOverview(ctx, projectID)
	if err != nil {
		return nil, err
	}

	logs, err := s.repomanager.Devlogs(s.db).ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	t1, err := s.repomanager.Reviews(s.db).ListT1ByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	t2, err := s.repomanager.Reviews(s.db).ListT2ByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ReviewDetail{Overview: overview, Devlogs: logs, T1History: t1, T2History: t2}, nil
}

// DecideT1 records a triage decision and applies the matching transition.
// The review row, the status change, and the audit row commit together or
// not at all.
func (s *ReviewService) DecideT1(ctx context.Context, actor *models.User, projectID int64, action models.T1Action, feedback, notes *string) error {

	if err := guard.Require(actor, guard.CapT1Review); err != nil {
		return err
	}

	to := action.ResultStatus()
	if to == "" {
		return fmt.Errorf("%w: unknown t1 action %q", common.ErrorMalformedInput, action)
	}

	now := time.Now()

	return withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {

		if _, err := transitionProject(ctx, tx, s.repomanager, actor, projectID, to, false, now); err != nil {
			return err
		}

		review := &models.T1Review{
			UserID:    actor.ID,
			ProjectID: projectID,
			Feedback:  feedback,
			Notes:     notes,
			Action:    action,
			Timestamp: now,
		}
		return s.repomanager.Reviews(tx).CreateT1(ctx, review)
	})
}

// ScoreT2 records a scoring decision with its multiplier and moves the
// project from t1_approved to t2_approved.
func (s *ReviewService) ScoreT2(ctx context.Context, actor *models.User, projectID int64, multiplier float64, feedback, notes *string) error {

	if err := guard.Require(actor, guard.CapT2Review); err != nil {
		return err
	}

	if multiplier <= 0 {
		return fmt.Errorf("%w: multiplier must be positive", common.ErrorMalformedInput)
	}

	now := time.Now()

	return withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {

		if _, err := transitionProject(ctx, tx, s.repomanager, actor, projectID, models.StatusT2Approved, false, now); err != nil {
			return err
		}

		review := &models.T2Review{
			UserID:     actor.ID,
			ProjectID:  projectID,
			Feedback:   feedback,
			Notes:      notes,
			Multiplier: multiplier,
			Timestamp:  now,
		}
		return s.repomanager.Reviews(tx).CreateT2(ctx, review)
	})
}

// Finalize closes out a fully scored project.
func (s *ReviewService) Finalize(ctx context.Context, actor *models.User, projectID int64) error {

	if err := guard.Require(actor, guard.CapT2Review); err != nil {
		return err
	}

	return withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := transitionProject(ctx, tx, s.repomanager, actor, projectID, models.StatusFinalized, false, time.Now())
		return err
	})
}

// ProjectAuditTrail returns the full mutation history of a project,
// reconstructable independently of its current mutable state.
func (s *ReviewService) ProjectAuditTrail(ctx context.Context, actor *models.User, projectID int64) ([]models.ProjectAuditLog, error) {

	if err := guard.Require(actor, guard.CapProjectAuditLogs); err != nil {
		return nil, err
	}

	// surface not-found for missing/deleted projects before listing
	if _, err := s.repomanager.Projects(s.db).GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	return s.repomanager.AuditLogs(s.db).ListProject(ctx, projectID)
}

// SessionAuditTrail returns a user's session lifecycle events.
func (s *ReviewService) SessionAuditTrail(ctx context.Context, actor *models.User, userID int64) ([]models.SessionAuditLog, error) {

	if err := guard.Require(actor, guard.CapSessionAuditLogs); err != nil {
		return nil, err
	}

	return s.repomanager.AuditLogs(s.db).ListSession(ctx, userID)
}
