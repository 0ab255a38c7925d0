package vox

import "errors"

// Error kinds returned by the conversion pipeline. Callers match them with
// errors.Is; the underlying cause, when there is one, stays wrapped too.
var (
	ErrNotFound  = errors.New("not found")
	ErrFormat    = errors.New("malformed input")
	ErrDimension = errors.New("dimension exceeds 256")
	ErrCapacity  = errors.New("capacity exceeded")
	ErrArgument  = errors.New("invalid argument")
	ErrIO        = errors.New("i/o failure")
)
