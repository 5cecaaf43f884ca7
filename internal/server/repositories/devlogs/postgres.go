package devlogs

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

func (r *PostgresRepository) Create(ctx context.Context, devlog *models.Devlog) (*models.Devlog, error) {

	query :=
		`INSERT INTO devlogs (user_id, project_id, description, time_spent, image, model, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		devlog.UserID, devlog.ProjectID, devlog.Description, devlog.TimeSpent,
		devlog.Image, devlog.Model, devlog.CreatedAt).Scan(&devlog.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	devlog.UpdatedAt = devlog.CreatedAt
	return devlog, nil
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Devlog, error) {

	query :=
		`SELECT id, user_id, project_id, description, time_spent, image, model, deleted, created_at, updated_at
		 FROM devlogs
		 WHERE project_id = $1 AND deleted = FALSE
		 ORDER BY created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Devlog
	for rows.Next() {
		var d models.Devlog
		err := rows.Scan(&d.ID, &d.UserID, &d.ProjectID, &d.Description, &d.TimeSpent,
			&d.Image, &d.Model, &d.Deleted, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
