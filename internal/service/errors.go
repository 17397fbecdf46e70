package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map them to HTTP
// statuses in one place; anything else becomes a 500 with the detail logged
// server-side only.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("invalid credentials")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
)
