package internal

import "errors"

var (
	// ErrFailed is delivered to error handlers when Fail is called without an error.
	ErrFailed = errors.New("wiretap: failed")

	ErrNoHandler          = errors.New("wiretap: a callback or a node is expected")
	ErrConflictingHandler = errors.New("wiretap: only a callback or a node is expected, not both")
	ErrEmptyJoin          = errors.New("wiretap: join needs at least one member")
	ErrDuplicateMember    = errors.New("wiretap: the same node cannot occupy two join slots")
	ErrNilMember          = errors.New("wiretap: join member is a nil node")
	ErrTaskPanicked       = errors.New("wiretap: task panicked")
)
