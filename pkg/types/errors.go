package types

import "errors"

// Standard errors returned by store operations. Callers compare with
// errors.Is; the CLI translates them into user-facing messages.
var (
	// ErrNotFound is returned when an exact-key lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTitle is returned when a title is empty.
	ErrInvalidTitle = errors.New("title must not be empty")

	// ErrInvalidDate is returned when an event date is empty.
	ErrInvalidDate = errors.New("date must not be empty")

	// ErrStoreClosed is returned by operations on a closed store.
	ErrStoreClosed = errors.New("store is closed")
)
