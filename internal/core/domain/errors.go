package domain

import "errors"

var (
	// ErrNotFound is returned when a configuration id has no stored row.
	ErrNotFound = errors.New("configuration not found")

	// ErrAlreadyExists is returned when storing under an id that is taken.
	ErrAlreadyExists = errors.New("configuration already exists")

	// ErrInvalidPayload is returned when a client-supplied encrypted payload
	// is malformed or cannot be decrypted. A stored row failing to decrypt is
	// a server fault and is never reported as this.
	ErrInvalidPayload = errors.New("invalid configuration payload")
)
