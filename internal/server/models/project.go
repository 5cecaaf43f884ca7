package models

import (
	"fmt"
	"time"

	"github.com/shipyardhq/shipyard/internal/common"
)

// ProjectStatus enumerates the review workflow states of a project.
type ProjectStatus string

const (
	StatusBuilding       ProjectStatus = "building"
	StatusSubmitted      ProjectStatus = "submitted"
	StatusT1Approved     ProjectStatus = "t1_approved"
	StatusT2Approved     ProjectStatus = "t2_approved"
	StatusFinalized      ProjectStatus = "finalized"
	StatusRejected       ProjectStatus = "rejected"
	StatusRejectedLocked ProjectStatus = "rejected_locked"
)

// ParseProjectStatus converts the stored text form back into a ProjectStatus.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(s) {
	case StatusBuilding, StatusSubmitted, StatusT1Approved, StatusT2Approved,
		StatusFinalized, StatusRejected, StatusRejectedLocked:
		return ProjectStatus(s), nil
	}
	return "", fmt.Errorf("unknown project status %q", s)
}

// TransitionSources returns the set of states a project must currently be in
// for a transition into "to" to be legal. The switch is exhaustive over all
// statuses so a new status is a visible change here.
func TransitionSources(to ProjectStatus) []ProjectStatus {
	switch to {
	case StatusBuilding:
		// building is the creation state, never transitioned into.
		return nil
	case StatusSubmitted:
		// owner submit or resubmit; rejected_locked deliberately absent.
		return []ProjectStatus{StatusBuilding, StatusRejected}
	case StatusT1Approved, StatusRejected, StatusRejectedLocked:
		return []ProjectStatus{StatusSubmitted}
	case StatusT2Approved:
		return []ProjectStatus{StatusT1Approved}
	case StatusFinalized:
		return []ProjectStatus{StatusT2Approved}
	}
	return nil
}

// Terminal reports whether no transition ever leaves this status.
func (s ProjectStatus) Terminal() bool {
	return s == StatusRejectedLocked || s == StatusFinalized
}

// TransitionError reports a status change that is not permitted from the
// project's current state. It names both states as required by the workflow
// error contract and matches common.ErrorIllegalTransition via errors.Is.
type TransitionError struct {
	Current   ProjectStatus
	Attempted ProjectStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition: project is %q, cannot move to %q", e.Current, e.Attempted)
}

func (e *TransitionError) Unwrap() error {
	return common.ErrorIllegalTransition
}

// Project is owned by exactly one user and soft-deleted via the Deleted
// flag; reads must filter Deleted out.
type Project struct {
	ID     int64
	UserID int64

	Name        *string
	Description *string
	URL         *string

	Status  ProjectStatus
	Deleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
