// Package guard implements the per-request access control check applied
// before any workflow or query operation runs its side effects.
package guard

import (
	"fmt"

	"github.com/shipyardhq/shipyard/internal/common"
	"github.com/shipyardhq/shipyard/internal/server/models"
)

// Capability names one of the independent review-capability flags a user may
// hold.
type Capability int

const (
	CapT1Review Capability = iota
	CapT2Review
	CapSessionAuditLogs
	CapProjectAuditLogs
)

func (c Capability) String() string {
	switch c {
	case CapT1Review:
		return "t1_review"
	case CapT2Review:
		return "t2_review"
	case CapSessionAuditLogs:
		return "session_audit_logs"
	case CapProjectAuditLogs:
		return "project_audit_logs"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// Require passes when the acting user holds the capability. A nil user means
// a guarded operation was reached without a principal, which routing should
// make impossible; that returns ErrorNoPrincipal so callers surface it as an
// internal fault rather than a user error. The check is stateless and reads
// the flags straight off the User record.
func Require(user *models.User, c Capability) error {
	if user == nil {
		return common.ErrorNoPrincipal
	}

	var has bool
	switch c {
	case CapT1Review:
		has = user.HasT1Review
	case CapT2Review:
		has = user.HasT2Review
	case CapSessionAuditLogs:
		has = user.HasSessionAuditLogs
	case CapProjectAuditLogs:
		has = user.HasProjectAuditLogs
	}

	if !has {
		return fmt.Errorf("%w: missing %s", common.ErrorForbidden, c)
	}

	return nil
}

// RequireUser passes when a principal is present at all, for operations
// gated on authentication rather than a capability.
func RequireUser(user *models.User) error {
	if user == nil {
		return common.ErrorNoPrincipal
	}
	return nil
}
