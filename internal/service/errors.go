package service

import "errors"

// ErrUnauthorized is returned when an authoring operation is attempted
// without an authenticated session. The gateway is never reached.
var ErrUnauthorized = errors.New("no authenticated session")

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write collides with an existing slug.
var ErrConflict = errors.New("slug already in use")
