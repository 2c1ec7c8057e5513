package model

import "errors"

// Domain errors shared by the repositories, the service and the HTTP layer.
// Handlers map them to status codes exactly once, at the request boundary.
var (
	ErrNotFound        = errors.New("book not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyBorrowed = errors.New("book is already borrowed")
	ErrNotBorrowed     = errors.New("book is not currently borrowed")
	ErrConflict        = errors.New("book id conflict")
)
