package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts indicates a retry budget of zero or fewer attempts.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")
)
