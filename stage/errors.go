package stage

import "errors"

var (
	// ErrUnreachable indicates that a stage service stayed unavailable
	// through every retry attempt.
	ErrUnreachable = errors.New("stage service unreachable")

	// ErrRejected indicates that a stage service rejected the request.
	// Rejections are permanent and are never retried.
	ErrRejected = errors.New("stage service rejected request")

	// ErrInvalidMaxAttempts indicates a retry budget of zero or less.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
)
