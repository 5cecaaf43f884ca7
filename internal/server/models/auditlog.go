package models

import (
	"fmt"
	"time"
)

// SessionAuditType enumerates session lifecycle events.
type SessionAuditType string

const (
	SessionAuditLogin  SessionAuditType = "login"
	SessionAuditLogout SessionAuditType = "logout"
	SessionAuditExpire SessionAuditType = "session_expire"
)

// ParseSessionAuditType converts the stored text form back.
func ParseSessionAuditType(s string) (SessionAuditType, error) {
	switch SessionAuditType(s) {
	case SessionAuditLogin, SessionAuditLogout, SessionAuditExpire:
		return SessionAuditType(s), nil
	}
	return "", fmt.Errorf("unknown session audit type %q", s)
}

// SessionAuditLog is an append-only record of a session lifecycle event.
type SessionAuditLog struct {
	ID        int64
	UserID    int64
	Type      SessionAuditType
	Timestamp time.Time
}

// ProjectAuditType enumerates project mutations worth a trail entry.
type ProjectAuditType string

const (
	ProjectAuditCreate       ProjectAuditType = "create"
	ProjectAuditUpdate       ProjectAuditType = "update"
	ProjectAuditDelete       ProjectAuditType = "delete"
	ProjectAuditStatusChange ProjectAuditType = "status_change"
)

// ParseProjectAuditType converts the stored text form back.
func ParseProjectAuditType(s string) (ProjectAuditType, error) {
	switch ProjectAuditType(s) {
	case ProjectAuditCreate, ProjectAuditUpdate, ProjectAuditDelete, ProjectAuditStatusChange:
		return ProjectAuditType(s), nil
	}
	return "", fmt.Errorf("unknown project audit type %q", s)
}

// ProjectAuditLog is an append-only record of a project mutation. The acting
// user may differ from the owner when a reviewer drives the change. For
// status_change entries OldStatus and NewStatus capture the transition; for
// create/update entries the free-text columns snapshot the fields.
type ProjectAuditLog struct {
	ID           int64
	UserID       int64
	ActionUserID int64
	ProjectID    int64
	Type         ProjectAuditType

	OldStatus *ProjectStatus
	NewStatus *ProjectStatus

	Name        *string
	Description *string
	URL         *string

	Timestamp time.Time
}
