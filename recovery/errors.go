package recovery

import "errors"

var (
	// ErrUnparseable indicates that no JSON document could be recovered
	// from the input, even after repair.
	ErrUnparseable = errors.New("unparseable model output")

	// ErrSchemaMismatch indicates that valid JSON was recovered but it does
	// not satisfy the expected schema.
	ErrSchemaMismatch = errors.New("model output does not match schema")
)
