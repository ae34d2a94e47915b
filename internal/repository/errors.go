// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow handlers to map
// failure scenarios to HTTP statuses: ErrNotFound becomes 404,
// ErrCodeExists becomes 409, ErrConfirmationRequired becomes 400.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

// ErrCodeExists is returned when creating a crew member whose employee
// code is already taken (comparison is case-insensitive).
var ErrCodeExists = errors.New("crew code already exists")

// ErrConfirmationRequired is returned when a device revoke is attempted
// without the operator confirmation flag.  The device's status is left
// unchanged.
var ErrConfirmationRequired = errors.New("revoke requires confirmation")
