package sessions

import (
	"context"

	"github.com/shipyardhq/shipyard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) error
	// GetWithUser resolves a session token to the session and its user in one
	// round trip. Expiry is not checked here; callers decide what an expired
	// session means.
	GetWithUser(ctx context.Context, id string) (*models.Session, *models.User, error)
	Delete(ctx context.Context, id string) error
}
