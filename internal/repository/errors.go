// Package repository defines error types that are reused across the
// repository layer. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver-specific errors. For example,
// ErrEmailExists indicates a signup conflict that handlers translate
// into an HTTP 409 response, while ErrNotFound covers lookups that
// matched no row.
package repository

import "errors"

// ErrEmailExists is returned when an insert would violate the unique
// email constraint on the users table. Handlers should translate this
// into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a user or profile lookup matches no
// row. Services decide per call site whether this means "unauthorized"
// or "no such resource".
var ErrNotFound = errors.New("record not found")
