package httpapi

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shipyardhq/shipyard/internal/logging"
	"github.com/shipyardhq/shipyard/internal/server/config"
	"github.com/shipyardhq/shipyard/internal/server/identity"
	"github.com/shipyardhq/shipyard/internal/server/repositories/repomanager"
	"github.com/shipyardhq/shipyard/internal/server/services"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionValidityDuration = time.Hour

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	rm := repomanager.NewPostgresRepositoryManager()
	provider := identity.NewSlackProvider(cfg.SlackClientID, cfg.SlackClientSecret, cfg.SlackRedirectURL)

	s := NewServer(cfg, logger, provider,
		services.NewUserService(db, rm, cfg),
		services.NewProjectService(db, rm),
		services.NewDevlogService(db, rm, cfg),
		services.NewReviewService(db, rm))

	return s, mock, db
}

// expectSession arranges the session cookie lookup to resolve to a user with
// the given capability flags.
func expectSession(mock sqlmock.Sqlmock, token string, userID int64, t1, t2, sessionAudit, projectAudit bool) {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "expires_at",
		"u_id", "slack_id", "name", "profile_picture", "status",
		"has_session_audit_logs", "has_project_audit_logs", "has_t1_review", "has_t2_review",
		"created_at", "last_login_at",
	}).AddRow(token, userID, now.Add(time.Hour),
		userID, "U123", "alice", "https://pic", "default",
		sessionAudit, projectAudit, t1, t2, now, now)

	mock.ExpectQuery(`(?s)^SELECT\s+s\.id,`).WithArgs(token).WillReturnRows(rows)
}

func doRequest(s *Server, method, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)
	return w
}

func TestAnonymousRequestRejected(t *testing.T) {
	s, _, db := newTestServer(t)
	defer db.Close()

	w := doRequest(s, http.MethodGet, "/review/queue", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestReviewQueue_MissingCapabilityIs403(t *testing.T) {
	s, mock, db := newTestServer(t)
	defer db.Close()

	expectSession(mock, "tok-1", 3, false, false, false, false)

	w := doRequest(s, http.MethodGet, "/review/queue", nil, "tok-1")
	if w.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("guard must reject before any query: %v", err)
	}
}

func TestReviewQueue_Success(t *testing.T) {
	s, mock, db := newTestServer(t)
	defer db.Close()

	expectSession(mock, "tok-1", 9, true, false, false, false)

	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "name", "description", "url", "status", "deleted", "created_at", "updated_at",
		"owner_id", "owner_name", "owner_slack_id", "owner_status",
		"time_spent", "devlog_count", "last_updated",
	}).AddRow(int64(5), int64(3), "orbit", nil, nil, "submitted", false, created, created,
		int64(3), "alice", "U123", "default",
		int64(90), int64(2), created)

	mock.ExpectQuery(`(?s)^SELECT\s+p\.id,`).WithArgs("submitted").WillReturnRows(rows)

	w := doRequest(s, http.MethodGet, "/review/queue", nil, "tok-1")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"time_spent":90`) {
		t.Fatalf("aggregates missing from response: %s", w.Body.String())
	}
}

func TestReviewList_MalformedFilterIs400BeforeQuery(t *testing.T) {
	s, mock, db := newTestServer(t)
	defer db.Close()

	expectSession(mock, "tok-1", 9, true, false, false, false)

	form := url.Values{"user": []string{"abc"}}
	w := doRequest(s, http.MethodPost, "/review/list", form, "tok-1")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("malformed filter must fail before any query: %v", err)
	}
}

func TestSubmit_IllegalTransitionIs409(t *testing.T) {
	s, mock, db := newTestServer(t)
	defer db.Close()

	expectSession(mock, "tok-1", 3, false, false, false, false)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "description", "url", "status", "deleted", "created_at", "updated_at",
		}).AddRow(int64(5), int64(3), "orbit", nil, nil, "finalized", false, now, now))
	mock.ExpectRollback()

	w := doRequest(s, http.MethodPost, "/projects/5/submit", url.Values{}, "tok-1")
	if w.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "finalized") {
		t.Fatalf("conflict must name the current state: %s", w.Body.String())
	}
}

func TestProjectGet_NonNumericIDIs400(t *testing.T) {
	s, mock, db := newTestServer(t)
	defer db.Close()

	expectSession(mock, "tok-1", 3, false, false, false, false)

	w := doRequest(s, http.MethodGet, "/projects/abc", nil, "tok-1")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestProjectGet_MissingIs404(t *testing.T) {
	s, mock, db := newTestServer(t)
	defer db.Close()

	expectSession(mock, "tok-1", 3, false, false, false, false)

	mock.ExpectQuery(`(?s)^SELECT\s+p\.id,`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	w := doRequest(s, http.MethodGet, "/projects/99", nil, "tok-1")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSessionAudit_SelfWithCapability(t *testing.T) {
	s, mock, db := newTestServer(t)
	defer db.Close()

	expectSession(mock, "tok-1", 3, false, false, true, false)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "type", "timestamp"}).
		AddRow(int64(1), int64(3), "login", now)
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,\s*type,`).WithArgs(int64(3)).WillReturnRows(rows)

	w := doRequest(s, http.MethodGet, "/audit/sessions", nil, "tok-1")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"login"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestLogout_WithoutCookieIsNoContent(t *testing.T) {
	s, _, db := newTestServer(t)
	defer db.Close()

	w := doRequest(s, http.MethodPost, "/logout", nil, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d", w.Code)
	}
}
