package auditlogs

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shipyardhq/shipyard/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestAppendSession(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+session_audit_logs\s*\(user_id,\s*type,\s*timestamp\)`).
		WithArgs(int64(3), "login", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	entry := &models.SessionAuditLog{UserID: 3, Type: models.SessionAuditLogin, Timestamp: now}
	if err := repo.AppendSession(context.Background(), entry); err != nil {
		t.Fatalf("AppendSession error: %v", err)
	}
	if entry.ID != 1 {
		t.Fatalf("unexpected id: %d", entry.ID)
	}
}

func TestAppendProject_StatusChange(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+project_audit_logs`).
		WithArgs(int64(3), int64(9), int64(5), "status_change", "submitted", "t1_approved", nil, nil, nil, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	oldStatus := models.StatusSubmitted
	newStatus := models.StatusT1Approved
	entry := &models.ProjectAuditLog{
		UserID:       3,
		ActionUserID: 9,
		ProjectID:    5,
		Type:         models.ProjectAuditStatusChange,
		OldStatus:    &oldStatus,
		NewStatus:    &newStatus,
		Timestamp:    now,
	}
	if err := repo.AppendProject(context.Background(), entry); err != nil {
		t.Fatalf("AppendProject error: %v", err)
	}
}

func TestListProject_RoundTrip(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*action_user_id,\s*project_id,\s*type,.*FROM\s+project_audit_logs\s+WHERE\s+project_id\s*=\s*\$1\s+ORDER\s+BY\s+timestamp\s+ASC`

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "action_user_id", "project_id", "type",
		"old_status", "new_status", "name", "description", "url", "timestamp",
	}).
		AddRow(int64(1), int64(3), int64(3), int64(5), "create", nil, nil, "orbit", nil, nil, now.Add(-time.Hour)).
		AddRow(int64(2), int64(3), int64(9), int64(5), "status_change", "submitted", "rejected_locked", nil, nil, nil, now)

	mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnRows(rows)

	list, err := repo.ListProject(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListProject error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].Type != models.ProjectAuditCreate || list[0].OldStatus != nil {
		t.Fatalf("unexpected first entry: %+v", list[0])
	}
	if list[1].NewStatus == nil || *list[1].NewStatus != models.StatusRejectedLocked {
		t.Fatalf("unexpected second entry: %+v", list[1])
	}
	if list[1].ActionUserID != 9 || list[1].UserID != 3 {
		t.Fatalf("actor and owner must be kept apart: %+v", list[1])
	}
}

func TestListSession(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "type", "timestamp"}).
		AddRow(int64(2), int64(3), "session_expire", now).
		AddRow(int64(1), int64(3), "login", now.Add(-time.Hour))

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,\s*type,\s*timestamp\s+FROM\s+session_audit_logs`).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	list, err := repo.ListSession(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListSession error: %v", err)
	}
	if len(list) != 2 || list[0].Type != models.SessionAuditExpire {
		t.Fatalf("unexpected list: %+v", list)
	}
}
