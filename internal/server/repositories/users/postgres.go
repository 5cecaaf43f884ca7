package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const userColumns = `id, slack_id, name, profile_picture, status,
		has_session_audit_logs, has_project_audit_logs, has_t1_review, has_t2_review,
		created_at, last_login_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var status string
	err := row.Scan(&user.ID, &user.SlackID, &user.Name, &user.ProfilePicture, &status,
		&user.HasSessionAuditLogs, &user.HasProjectAuditLogs, &user.HasT1Review, &user.HasT2Review,
		&user.CreatedAt, &user.LastLoginAt)
	if err != nil {
		return nil, err
	}
	user.Status, err = models.ParseUserStatus(status)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) UpsertBySlackID(ctx context.Context, slackID, name, profilePicture string, now time.Time) (*models.User, error) {

	query :=
		`INSERT INTO users (slack_id, name, profile_picture, created_at, last_login_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (slack_id) DO UPDATE
		 SET name = EXCLUDED.name, profile_picture = EXCLUDED.profile_picture, last_login_at = EXCLUDED.last_login_at
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, slackID, name, profilePicture, now))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
