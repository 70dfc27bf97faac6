package service

import "errors"

// Sentinel errors shared by all services. Handlers map them onto HTTP
// status codes with errors.Is; anything unwrapped is a 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)
