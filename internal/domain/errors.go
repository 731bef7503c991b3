package domain

import "errors"

// Error kinds surfaced at the API boundary. Handlers map these to
// HTTP statuses; none are fatal to the process.
var (
	// ErrNotFound means the entity id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means the requested state change violates
	// the account or request state machine.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrConflict means the record's version moved since it was read:
	// another actor already disposed the item.
	ErrConflict = errors.New("conflict: record was modified by another actor")

	// ErrDuplicateRequest means a second pending request where only
	// one is allowed.
	ErrDuplicateRequest = errors.New("duplicate request")

	// ErrUnauthorized means the caller lacks the required role.
	ErrUnauthorized = errors.New("unauthorized")
)
