package domain

import "errors"

// ErrNotFound is returned by repo and service functions when a referenced trip,
// day log, item, or category does not exist (or the trip is soft-deleted).
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule: an inverted date
// range, a malformed reorder request, an out-of-range rating and so on.
// Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
