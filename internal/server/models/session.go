package models

import "time"

// Session is an opaque token bound to one user with an absolute expiry.
// Sessions are created on login and invalidated on logout or expiry; there
// is no sliding renewal.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// Expired reports whether the session's absolute expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
