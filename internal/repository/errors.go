// Package repository implements MySQL data access for the fuel token
// backend.  Sentinel errors defined here are shared across repositories so
// handlers can map failure scenarios onto HTTP statuses.
package repository

import "errors"

// ErrConflict is returned when an insert or update collides with existing
// state, typically a unique key.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when a user insert collides with an existing
// email address.  Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
