package models

import (
	"fmt"
	"time"
)

// T1Action is a first-tier triage decision on a submitted project.
type T1Action string

const (
	T1Approve    T1Action = "approve"
	T1Reject     T1Action = "reject"
	T1RejectLock T1Action = "reject_lock"
)

// ParseT1Action converts the stored text form back into a T1Action.
func ParseT1Action(s string) (T1Action, error) {
	switch T1Action(s) {
	case T1Approve, T1Reject, T1RejectLock:
		return T1Action(s), nil
	}
	return "", fmt.Errorf("unknown t1 action %q", s)
}

// ResultStatus maps a triage decision to the project status it produces.
func (a T1Action) ResultStatus() ProjectStatus {
	switch a {
	case T1Approve:
		return StatusT1Approved
	case T1Reject:
		return StatusRejected
	case T1RejectLock:
		return StatusRejectedLocked
	}
	return ""
}

// T1Review is one recorded triage decision. Many reviews may reference one
// project; only the latest decision is authoritative for the project status.
type T1Review struct {
	ID        int64
	UserID    int64
	ProjectID int64

	Feedback *string
	Notes    *string
	Action   T1Action

	Timestamp time.Time
}

// T2Review is one recorded scoring decision with a numeric weight.
type T2Review struct {
	ID        int64
	UserID    int64
	ProjectID int64

	Feedback   *string
	Notes      *string
	Multiplier float64

	Timestamp time.Time
}
