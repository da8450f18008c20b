package apperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds for the service. Callers wrap these with context using
// errors.Wrap and boundaries classify with errors.Is.
var (
	// ErrValidation - malformed or missing caller input
	ErrValidation = errors.New("validation failed")

	// ErrAuthentication - absent, expired, mismatched, or reused credential
	ErrAuthentication = errors.New("authentication failed")

	// ErrRateLimited - daily quota exhausted
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrExternalService - identity/catalog/text provider unreachable or
	// returned an unexpected shape
	ErrExternalService = errors.New("external service failure")

	// ErrConfiguration - required credentials or settings absent
	ErrConfiguration = errors.New("configuration error")
)

// WithKind couples err to a taxonomy kind so boundaries can classify with
// errors.Is while the original cause stays in the chain.
func WithKind(kind, err error) error {
	if err == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Sanitized returns a user-safe message for an error. Internal detail
// (wrapped causes, paths, type names) never leaves the service boundary.
func Sanitized(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "invalid request"
	case errors.Is(err, ErrAuthentication):
		return "authentication required"
	case errors.Is(err, ErrRateLimited):
		return "daily request limit reached"
	case errors.Is(err, ErrExternalService):
		return "upstream service unavailable"
	case errors.Is(err, ErrConfiguration):
		return "service misconfigured"
	}
	return "internal error"
}
