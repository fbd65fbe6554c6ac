package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: the row or object does not exist
//   - ErrConflict: a uniqueness rule was violated (e.g. duplicate external order number)
//   - ErrInvalidState: the entity is in the wrong state for the operation
//   - ErrUnavailable: a dependency is temporarily unavailable (lock held, broker down)
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
