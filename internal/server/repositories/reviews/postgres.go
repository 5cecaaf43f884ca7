package reviews

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

func (r *PostgresRepository) CreateT1(ctx context.Context, review *models.T1Review) error {

	query :=
		`INSERT INTO t1_reviews (user_id, project_id, feedback, notes, action, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		review.UserID, review.ProjectID, review.Feedback, review.Notes,
		string(review.Action), review.Timestamp).Scan(&review.ID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CreateT2(ctx context.Context, review *models.T2Review) error {

	query :=
		`INSERT INTO t2_reviews (user_id, project_id, feedback, notes, multiplier, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		review.UserID, review.ProjectID, review.Feedback, review.Notes,
		review.Multiplier, review.Timestamp).Scan(&review.ID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListT1ByProject(ctx context.Context, projectID int64) ([]models.T1Review, error) {

	query :=
		`SELECT id, user_id, project_id, feedback, notes, action, timestamp
		 FROM t1_reviews
		 WHERE project_id = $1
		 ORDER BY timestamp DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.T1Review
	for rows.Next() {
		var rv models.T1Review
		var action string
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProjectID, &rv.Feedback, &rv.Notes, &action, &rv.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if rv.Action, err = models.ParseT1Action(action); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListT2ByProject(ctx context.Context, projectID int64) ([]models.T2Review, error) {

	query :=
		`SELECT id, user_id, project_id, feedback, notes, multiplier, timestamp
		 FROM t2_reviews
		 WHERE project_id = $1
		 ORDER BY timestamp DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.T2Review
	for rows.Next() {
		var rv models.T2Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProjectID, &rv.Feedback, &rv.Notes, &rv.Multiplier, &rv.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
