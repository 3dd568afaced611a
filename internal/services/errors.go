// Package services defines the business logic for accounts, recipes, and
// ratings. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler layer.
package services

import "errors"

// Recipe-related errors.
var (
	// ErrRecipeNotFound indicates that the requested recipe does not exist
	// or is a draft not visible to the current user.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrPermissionDenied is returned when a user who is neither the recipe's
	// author nor staff attempts to edit or delete it. It is a per-request
	// outcome, never a server fault.
	ErrPermissionDenied = errors.New("not allowed to modify this recipe")

	// ErrSlugExhausted is returned when a unique slug could not be assigned
	// within the bounded number of attempts. The operation is retryable.
	ErrSlugExhausted = errors.New("could not assign a unique slug")
)

// Rating-related errors.
var (
	// ErrInvalidScore is returned when a rating score is outside 1–5.
	ErrInvalidScore = errors.New("score must be between 1 and 5")

	// ErrUnauthenticated is returned when a mutating operation is attempted
	// without an authenticated identity.
	ErrUnauthenticated = errors.New("authentication required")
)

// Account-related errors.
var (
	// ErrInvalidCredentials is returned on login with an unknown username
	// or a wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountExists is returned when registration collides with an
	// existing username or email.
	ErrAccountExists = errors.New("username or email already taken")
)
