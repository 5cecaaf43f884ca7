package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/dbx"
	"github.com/shipyardhq/shipyard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) error {

	query :=
		`INSERT INTO sessions (id, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, session.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetWithUser(ctx context.Context, id string) (*models.Session, *models.User, error) {

	query :=
		`SELECT s.id, s.user_id, s.expires_at,
		        u.id, u.slack_id, u.name, u.profile_picture, u.status,
		        u.has_session_audit_logs, u.has_project_audit_logs, u.has_t1_review, u.has_t2_review,
		        u.created_at, u.last_login_at
		 FROM sessions s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.id = $1
		 `

	session := &models.Session{}
	user := &models.User{}
	var status string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.ExpiresAt,
		&user.ID, &user.SlackID, &user.Name, &user.ProfilePicture, &status,
		&user.HasSessionAuditLogs, &user.HasProjectAuditLogs, &user.HasT1Review, &user.HasT2Review,
		&user.CreatedAt, &user.LastLoginAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}

	if user.Status, err = models.ParseUserStatus(status); err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {

	query := `DELETE FROM sessions WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
