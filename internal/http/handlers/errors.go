// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper and give clients a stable, machine-readable taxonomy alongside
// human-readable messages. Codes are lowercase snake_case; generic codes
// mirror common HTTP status semantics, while domain-specific codes cover
// business outcomes a status alone cannot convey (e.g. slug_exhausted for a
// retryable create).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeValidation       = "validation_failed"
	ErrCodeSlugExhausted    = "slug_exhausted"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
