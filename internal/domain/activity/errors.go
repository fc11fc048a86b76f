package activity

import "errors"

var (
	// ErrInvalidInput indicates an incomplete or unknown activity entry.
	ErrInvalidInput = errors.New("invalid activity input")
)
