// Package apperr defines the error taxonomy shared by all services.
// Handlers map these to HTTP status codes; everything else wraps them
// with fmt.Errorf("%w: ...") for detail.
package apperr

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrStorage         = errors.New("storage failure")
	ErrNotification    = errors.New("notification failure")
)
