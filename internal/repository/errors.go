// Package repository defines the SQL data access layer and the sentinel
// error values shared by its repositories. Higher layers (services and
// handlers) match on these sentinels to pick the right HTTP status: for
// example ErrConflict becomes a 409 when a favorite already exists, while
// ErrNotFound becomes a 404.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist, or when a
// delete/update matched nothing. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a uniqueness constraint rejects an insert,
// such as a duplicate (userId, movieId) favorite pair. Handlers translate
// it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering with an email address that is
// already taken. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
