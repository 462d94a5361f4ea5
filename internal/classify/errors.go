package classify

import "errors"

var (
	// ErrIdentifierNotFound is returned when the hash identification tool is
	// not installed or not on PATH.
	ErrIdentifierNotFound = errors.New("hash identifier not found")

	// ErrInvalidOutput is returned when the identifier output cannot be
	// parsed as a classification map.
	ErrInvalidOutput = errors.New("hash identifier output is not valid")
)
