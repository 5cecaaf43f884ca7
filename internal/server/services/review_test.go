package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/server/models"
	"github.com/shipyardhq/shipyard/internal/server/repositories/projects"
)

func t1Reviewer() *models.User {
	return &models.User{ID: 9, SlackID: "U900", Name: "rita", Status: models.UserDefault, HasT1Review: true}
}

func t2Reviewer() *models.User {
	return &models.User{ID: 10, SlackID: "U901", Name: "remy", Status: models.UserDefault, HasT2Review: true}
}

func TestQueue_RequiresT1Capability(t *testing.T) {
	_, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	_, err := svc.Queue(context.Background(), owner())
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}

	_, err = svc.Queue(context.Background(), nil)
	if !errors.Is(err, common.ErrorNoPrincipal) {
		t.Fatalf("want ErrorNoPrincipal, got %v", err)
	}
}

func TestQueue_ListsSubmitted(t *testing.T) {
	mock, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	mock.ExpectQuery(`(?s)^SELECT\s+p\.id,.*p\.status\s+IN\s*\(\$1\)`).
		WithArgs("submitted").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "description", "url", "status", "deleted", "created_at", "updated_at",
			"owner_id", "owner_name", "owner_slack_id", "owner_status",
			"time_spent", "devlog_count", "last_updated",
		}))

	list, err := svc.Queue(context.Background(), t1Reviewer())
	if err != nil {
		t.Fatalf("Queue error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestDecideT1_RejectLock(t *testing.T) {
	mock, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	mock.ExpectBegin()
	mock.ExpectQuery(getProjectQ).WithArgs(int64(5)).WillReturnRows(projectRow(5, 3, models.StatusSubmitted))
	mock.ExpectExec(updateStatusQ).
		WithArgs("rejected_locked", sqlmock.AnyArg(), int64(5), "submitted").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(appendAuditQ).
		WithArgs(int64(3), int64(9), int64(5), "status_change", "submitted", "rejected_locked", nil, nil, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+t1_reviews`).
		WithArgs(int64(9), int64(5), "spam", nil, "reject_lock", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectCommit()

	feedback := "spam"
	err := svc.DecideT1(context.Background(), t1Reviewer(), 5, models.T1RejectLock, &feedback, nil)
	if err != nil {
		t.Fatalf("DecideT1 error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecideT1_UnknownAction(t *testing.T) {
	_, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	err := svc.DecideT1(context.Background(), t1Reviewer(), 5, models.T1Action("shrug"), nil, nil)
	if !errors.Is(err, common.ErrorMalformedInput) {
		t.Fatalf("want ErrorMalformedInput, got %v", err)
	}
}

func TestScoreT2_RequiresT2Capability(t *testing.T) {
	_, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	// T1 capability alone is not enough for scoring.
	err := svc.ScoreT2(context.Background(), t1Reviewer(), 5, 1.5, nil, nil)
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}
}

func TestScoreT2_NonPositiveMultiplier(t *testing.T) {
	_, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	err := svc.ScoreT2(context.Background(), t2Reviewer(), 5, 0, nil, nil)
	if !errors.Is(err, common.ErrorMalformedInput) {
		t.Fatalf("want ErrorMalformedInput, got %v", err)
	}
}

func TestScoreT2_RecordsReviewAndTransition(t *testing.T) {
	mock, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	mock.ExpectBegin()
	mock.ExpectQuery(getProjectQ).WithArgs(int64(5)).WillReturnRows(projectRow(5, 3, models.StatusT1Approved))
	mock.ExpectExec(updateStatusQ).
		WithArgs("t2_approved", sqlmock.AnyArg(), int64(5), "t1_approved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(appendAuditQ).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+t2_reviews`).
		WithArgs(int64(10), int64(5), nil, nil, 2.0, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectCommit()

	if err := svc.ScoreT2(context.Background(), t2Reviewer(), 5, 2.0, nil, nil); err != nil {
		t.Fatalf("ScoreT2 error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFinalize_OnlyFromT2Approved(t *testing.T) {
	mock, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	mock.ExpectBegin()
	mock.ExpectQuery(getProjectQ).WithArgs(int64(5)).WillReturnRows(projectRow(5, 3, models.StatusSubmitted))
	mock.ExpectRollback()

	err := svc.Finalize(context.Background(), t2Reviewer(), 5)

	var transition *models.TransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("want TransitionError, got %v", err)
	}
	if transition.Current != models.StatusSubmitted || transition.Attempted != models.StatusFinalized {
		t.Fatalf("error must name both states: %+v", transition)
	}
}

func TestList_PassesFilterThrough(t *testing.T) {
	mock, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	mock.ExpectQuery(`(?s)^SELECT\s+p\.id,.*p\.status\s+IN\s*\(\$1\)\s+AND\s+p\.id\s+IN\s*\(\$2\)`).
		WithArgs("finalized", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "description", "url", "status", "deleted", "created_at", "updated_at",
			"owner_id", "owner_name", "owner_slack_id", "owner_status",
			"time_spent", "devlog_count", "last_updated",
		}))

	_, err := svc.List(context.Background(), t1Reviewer(), projects.Filter{
		Statuses:   []models.ProjectStatus{models.StatusFinalized},
		ProjectIDs: []int64{5},
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
}

func TestProjectAuditTrail_RequiresCapability(t *testing.T) {
	_, db, rm := newServiceMock(t)
	defer db.Close()

	svc := NewReviewService(db, rm)

	_, err := svc.ProjectAuditTrail(context.Background(), t1Reviewer(), 5)
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("want ErrorForbidden, got %v", err)
	}
}
