// Package apperr defines the error taxonomy shared by the service layer.
// Handlers translate these sentinels to HTTP status codes at the edge;
// storage errors are wrapped into them at the repository boundary.
package apperr

import "errors"

var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a duplicate fact (follow, like) or an action on a
	// relationship that does not exist.
	ErrConflict = errors.New("conflict")
	// ErrForbidden means an ownership violation: acting on another user's
	// post, comment or notification.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidOperation means a structurally invalid request such as a
	// self-follow or a reply to a reply.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrUnauthenticated means no caller identity is attached to the
	// current operation.
	ErrUnauthenticated = errors.New("unauthenticated")
)
