package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
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

// overviewSelect is the one aggregation shape reused by detail and listing
// reads. Deleted devlogs are excluded in the join condition so they never
// count; COALESCE keeps time_spent at zero for projects without devlogs, and
// the CASE handles MAX over zero rows being NULL rather than "earlier than
// updated_at".
const overviewSelect = `
	SELECT p.id, p.user_id, p.name, p.description, p.url, p.status, p.deleted, p.created_at, p.updated_at,
	       u.id, u.name, u.slack_id, u.status,
	       COALESCE(SUM(d.time_spent), 0) AS time_spent,
	       COUNT(d.id) AS devlog_count,
	       CASE
	           WHEN MAX(d.created_at) IS NULL THEN p.updated_at
	           WHEN MAX(d.created_at) > p.updated_at THEN MAX(d.created_at)
	           ELSE p.updated_at
	       END AS last_updated
	FROM projects p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN devlogs d ON d.project_id = p.id AND d.deleted = FALSE
	`

func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {

	query :=
		`INSERT INTO projects (user_id, name, description, url, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		project.UserID, project.Name, project.Description, project.URL,
		string(project.Status), project.CreatedAt).Scan(&project.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	project.UpdatedAt = project.CreatedAt
	return project, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {

	query :=
		`SELECT id, user_id, name, description, url, status, deleted, created_at, updated_at
		 FROM projects
		 WHERE id = $1 AND deleted = FALSE
		 `

	project := &models.Project{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID, &project.UserID, &project.Name, &project.Description, &project.URL,
		&status, &project.Deleted, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if project.Status, err = models.ParseProjectStatus(status); err != nil {
		return nil, err
	}

	return project, nil
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id, ownerID int64, name, description, url *string, now time.Time) (bool, error) {

	query :=
		`UPDATE projects
		 SET name = $1, description = $2, url = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6 AND deleted = FALSE
		 `

	res, err := r.db.ExecContext(ctx, query, name, description, url, now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id, ownerID int64, now time.Time) (bool, error) {

	query :=
		`UPDATE projects
		 SET deleted = TRUE, updated_at = $1
		 WHERE id = $2 AND user_id = $3 AND deleted = FALSE
		 `

	res, err := r.db.ExecContext(ctx, query, now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, ownerID *int64, from []models.ProjectStatus, to models.ProjectStatus, now time.Time) (bool, error) {

	if len(from) == 0 {
		return false, fmt.Errorf("empty source status set for transition to %q", to)
	}

	args := []any{string(to), now, id}
	placeholders := make([]string, 0, len(from))
	for _, s := range from {
		args = append(args, string(s))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf(
		`UPDATE projects
		 SET status = $1, updated_at = $2
		 WHERE id = $3 AND deleted = FALSE AND status IN (%s)`,
		strings.Join(placeholders, ", "))

	if ownerID != nil {
		args = append(args, *ownerID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}

func scanOverview(scan func(dest ...any) error) (*models.ProjectOverview, error) {
	o := &models.ProjectOverview{}
	var projectStatus, ownerStatus string

	err := scan(
		&o.Project.ID, &o.Project.UserID, &o.Project.Name, &o.Project.Description, &o.Project.URL,
		&projectStatus, &o.Project.Deleted, &o.Project.CreatedAt, &o.Project.UpdatedAt,
		&o.OwnerID, &o.OwnerName, &o.OwnerSlackID, &ownerStatus,
		&o.Stats.TimeSpent, &o.Stats.DevlogCount, &o.Stats.LastUpdated)
	if err != nil {
		return nil, err
	}

	if o.Project.Status, err = models.ParseProjectStatus(projectStatus); err != nil {
		return nil, err
	}
	if o.OwnerStatus, err = models.ParseUserStatus(ownerStatus); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *PostgresRepository) GetOverview(ctx context.Context, id int64) (*models.ProjectOverview, error) {

	query := overviewSelect + `
	WHERE p.deleted = FALSE AND p.id = $1
	GROUP BY p.id, u.id
	`

	row := r.db.QueryRowContext(ctx, query, id)
	o, err := scanOverview(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return o, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]models.ProjectOverview, error) {

	conds := []string{"p.deleted = FALSE"}
	var args []any

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			args = append(args, string(s))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, fmt.Sprintf("p.status IN (%s)", strings.Join(placeholders, ", ")))
	}

	if len(filter.ProjectIDs) > 0 {
		placeholders := make([]string, 0, len(filter.ProjectIDs))
		for _, id := range filter.ProjectIDs {
			args = append(args, id)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, fmt.Sprintf("p.id IN (%s)", strings.Join(placeholders, ", ")))
	}

	if len(filter.UserIDs) > 0 {
		placeholders := make([]string, 0, len(filter.UserIDs))
		for _, id := range filter.UserIDs {
			args = append(args, id)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, fmt.Sprintf("p.user_id IN (%s)", strings.Join(placeholders, ", ")))
	}

	query := overviewSelect + `
	WHERE ` + strings.Join(conds, " AND ") + `
	GROUP BY p.id, u.id
	ORDER BY p.id
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ProjectOverview
	for rows.Next() {
		o, err := scanOverview(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
