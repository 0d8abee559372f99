package wiretap

import "github.com/AnatoleLucet/wiretap/internal"

var (
	// ErrFailed is the error reported when Fail is called with a nil error.
	ErrFailed = internal.ErrFailed

	// ErrNoHandler and ErrConflictingHandler are the panics raised when a
	// listener registration carries no handler, or two.
	ErrNoHandler          = internal.ErrNoHandler
	ErrConflictingHandler = internal.ErrConflictingHandler

	ErrEmptyJoin       = internal.ErrEmptyJoin
	ErrDuplicateMember = internal.ErrDuplicateMember
	ErrNilMember       = internal.ErrNilMember

	// ErrTaskPanicked wraps the value recovered from a panicking task.
	ErrTaskPanicked = internal.ErrTaskPanicked
)
