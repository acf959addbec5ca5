// Package repository contains data access logic separated from HTTP
// handlers.  Each repository wraps a sql.DB handle and exposes typed
// queries for one table.  Sentinel errors defined here let handlers
// distinguish failure scenarios with errors.Is without inspecting
// driver-specific error values.
package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when registering a user with an email that
// is already taken.  Handlers translate it into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
