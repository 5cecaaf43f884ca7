package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shipyardhq/shipyard/internal/common"
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

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(time.Hour)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+sessions\s*\(id,\s*user_id,\s*expires_at\)`).
		WithArgs("tok-1", int64(3), expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Session{ID: "tok-1", UserID: 3, ExpiresAt: expires})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestGetWithUser_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+s\.id,\s*s\.user_id,\s*s\.expires_at,.*FROM\s+sessions\s+s\s+JOIN\s+users\s+u\s+ON\s+u\.id\s*=\s*s\.user_id\s+WHERE\s+s\.id\s*=\s*\$1`

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "expires_at",
		"u_id", "slack_id", "name", "profile_picture", "status",
		"has_session_audit_logs", "has_project_audit_logs", "has_t1_review", "has_t2_review",
		"created_at", "last_login_at",
	}).AddRow("tok-1", int64(3), now.Add(time.Hour),
		int64(3), "U123", "alice", "https://pic", "trusted",
		true, false, false, false, now, now)

	mock.ExpectQuery(q).WithArgs("tok-1").WillReturnRows(rows)

	session, user, err := repo.GetWithUser(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("GetWithUser error: %v", err)
	}
	if session.ID != "tok-1" || session.UserID != 3 {
		t.Fatalf("unexpected session: %+v", session)
	}
	if user.ID != 3 || user.Status != models.UserTrusted || !user.HasSessionAuditLogs {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGetWithUser_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+s\.id,`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.GetWithUser(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
