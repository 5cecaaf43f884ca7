// Package models defines the persisted entities of the review platform and
// the closed enumerations stored as text in the database.
package models

import (
	"fmt"
	"time"
)

// UserStatus is an advisory classification of a user. It is persisted and
// surfaced to reviewers but not enforced anywhere yet.
type UserStatus string

const (
	UserTrusted UserStatus = "trusted"
	UserDefault UserStatus = "default"
	UserWarned  UserStatus = "warned"
	UserBanned  UserStatus = "banned"
)

// ParseUserStatus converts the stored text form back into a UserStatus.
func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case UserTrusted, UserDefault, UserWarned, UserBanned:
		return UserStatus(s), nil
	}
	return "", fmt.Errorf("unknown user status %q", s)
}

// User is a platform account created on first login through the identity
// provider. The four capability flags are independent; a user may hold any
// subset of them.
type User struct {
	ID             int64
	SlackID        string
	Name           string
	ProfilePicture string
	Status         UserStatus

	HasSessionAuditLogs bool
	HasProjectAuditLogs bool
	HasT1Review         bool
	HasT2Review         bool

	CreatedAt   time.Time
	LastLoginAt time.Time
}
