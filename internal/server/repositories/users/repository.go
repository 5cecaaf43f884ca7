package users

import (
	"context"
	"time"

	"github.com/shipyardhq/shipyard/internal/server/models"
)

type Repository interface {
	// UpsertBySlackID creates the user on first login and refreshes
	// name/profile picture/last login time on every later one.
	UpsertBySlackID(ctx context.Context, slackID, name, profilePicture string, now time.Time) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
