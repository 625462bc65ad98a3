package session

import "errors"

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoToken      = errors.New("server returned no token")
)
