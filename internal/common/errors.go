// Package common defines shared constants and sentinel errors used across
// the Shipyard server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Guard errors. ErrorNoPrincipal signals a guarded operation was reached
	// without a resolved user, which is a routing bug rather than user error.
	ErrorNoPrincipal = errors.New("no principal")
	ErrorForbidden   = errors.New("forbidden")

	// Workflow errors.
	ErrorIllegalTransition = errors.New("illegal transition")

	// Input validation errors, raised before any storage access.
	ErrorMalformedInput = errors.New("malformed input")

	// Auth errors (invalid or malformed state token).
	ErrInvalidToken = errors.New("invalid token")

	// Session lifecycle errors.
	ErrSessionExpired = errors.New("session expired")
)
