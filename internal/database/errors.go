package database

import "errors"

// Sentinel errors for the circulation workflow. Repositories return
// these; the HTTP layer maps them to status codes with errors.Is.
// Any other storage failure propagates as an opaque server error.
var (
	ErrInvalidInput    = errors.New("missing required fields")
	ErrDuplicateISBN   = errors.New("isbn already exists")
	ErrBookNotFound    = errors.New("book not found")
	ErrBookUnavailable = errors.New("book not available")
)
