package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/dbx"
	"github.com/shipyardhq/shipyard/internal/server/config"
	"github.com/shipyardhq/shipyard/internal/server/identity"
	"github.com/shipyardhq/shipyard/internal/server/models"
	"github.com/shipyardhq/shipyard/internal/server/repositories/repomanager"
)

// UserService handles login, session resolution, and logout. Every lifecycle
// event leaves a session audit row in the same transaction as the mutation
// it records.
type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	sessionValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		sessionValidityDuration: cfg.SessionValidityDuration,
	}
}

// Login upserts the user for a verified identity and issues a fresh session.
// First login creates the account; later logins refresh name, picture, and
// last_login_at.
func (s *UserService) Login(ctx context.Context, ident *identity.Identity) (*models.User, *models.Session, error) {

	now := time.Now()

	var user *models.User
	var session *models.Session

	err := withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {

		var err error
		user, err = s.repomanager.Users(tx).UpsertBySlackID(ctx, ident.SlackID, ident.Name, ident.ProfilePicture, now)
		if err != nil {
			return fmt.Errorf("error upserting user: %w", err)
		}

		session = &models.Session{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			ExpiresAt: now.Add(s.sessionValidityDuration),
		}
		if err := s.repomanager.Sessions(tx).Create(ctx, session); err != nil {
			return fmt.Errorf("error creating session: %w", err)
		}

		entry := &models.SessionAuditLog{UserID: user.ID, Type: models.SessionAuditLogin, Timestamp: now}
		if err := s.repomanager.AuditLogs(tx).AppendSession(ctx, entry); err != nil {
			return fmt.Errorf("error appending session audit: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Resolve maps a session token to its user. An unknown token returns
// ErrorUnauthorized. An expired session is invalidated on the spot, with a
// session_expire audit row, and also returns ErrorUnauthorized so callers
// treat the request as anonymous.
func (s *UserService) Resolve(ctx context.Context, token string) (*models.User, error) {

	session, user, err := s.repomanager.Sessions(s.db).GetWithUser(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if session.Expired(time.Now()) {
		err := withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repomanager.Sessions(tx).Delete(ctx, session.ID); err != nil {
				return err
			}
			entry := &models.SessionAuditLog{UserID: user.ID, Type: models.SessionAuditExpire, Timestamp: time.Now()}
			return s.repomanager.AuditLogs(tx).AppendSession(ctx, entry)
		})
		if err != nil {
			return nil, err
		}
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// Logout invalidates the session. Unknown tokens are a no-op so repeated
// logouts stay harmless.
func (s *UserService) Logout(ctx context.Context, token string) error {

	session, user, err := s.repomanager.Sessions(s.db).GetWithUser(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	return withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).Delete(ctx, session.ID); err != nil {
			return err
		}
		entry := &models.SessionAuditLog{UserID: user.ID, Type: models.SessionAuditLogout, Timestamp: time.Now()}
		return s.repomanager.AuditLogs(tx).AppendSession(ctx, entry)
	})
}
