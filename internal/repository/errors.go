// Package repository defines error types that are reused across the
// repositories.  These sentinel values allow higher layers such as handlers
// to distinguish a missing record from a store failure.
package repository

import "errors"

// ErrProgramNotFound is returned when no program has the requested id.
// Handlers should translate this into an HTTP 404 response.
var ErrProgramNotFound = errors.New("program not found")
