package auditlogs

import (
	"context"
	"fmt"

	"github.com/shipyardhq/shipyard/internal/dbx"
	"github.com/shipyardhq/shipyard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AppendSession(ctx context.Context, entry *models.SessionAuditLog) error {

	query :=
		`INSERT INTO session_audit_logs (user_id, type, timestamp)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, string(entry.Type), entry.Timestamp).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) AppendProject(ctx context.Context, entry *models.ProjectAuditLog) error {

	query :=
		`INSERT INTO project_audit_logs
		 (user_id, action_user_id, project_id, type, old_status, new_status, name, description, url, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id
		 `

	var oldStatus, newStatus *string
	if entry.OldStatus != nil {
		s := string(*entry.OldStatus)
		oldStatus = &s
	}
	if entry.NewStatus != nil {
		s := string(*entry.NewStatus)
		newStatus = &s
	}

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.ActionUserID, entry.ProjectID, string(entry.Type),
		oldStatus, newStatus, entry.Name, entry.Description, entry.URL,
		entry.Timestamp).Scan(&entry.ID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListSession(ctx context.Context, userID int64) ([]models.SessionAuditLog, error) {

	query :=
		`SELECT id, user_id, type, timestamp
		 FROM session_audit_logs
		 WHERE user_id = $1
		 ORDER BY timestamp DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.SessionAuditLog
	for rows.Next() {
		var e models.SessionAuditLog
		var typ string
		if err := rows.Scan(&e.ID, &e.UserID, &typ, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if e.Type, err = models.ParseSessionAuditType(typ); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListProject(ctx context.Context, projectID int64) ([]models.ProjectAuditLog, error) {

	query :=
		`SELECT id, user_id, action_user_id, project_id, type, old_status, new_status, name, description, url, timestamp
		 FROM project_audit_logs
		 WHERE project_id = $1
		 ORDER BY timestamp ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ProjectAuditLog
	for rows.Next() {
		var e models.ProjectAuditLog
		var typ string
		var oldStatus, newStatus *string
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActionUserID, &e.ProjectID, &typ,
			&oldStatus, &newStatus, &e.Name, &e.Description, &e.URL, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if e.Type, err = models.ParseProjectAuditType(typ); err != nil {
			return nil, err
		}
		if oldStatus != nil {
			s, err := models.ParseProjectStatus(*oldStatus)
			if err != nil {
				return nil, err
			}
			e.OldStatus = &s
		}
		if newStatus != nil {
			s, err := models.ParseProjectStatus(*newStatus)
			if err != nil {
				return nil, err
			}
			e.NewStatus = &s
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
