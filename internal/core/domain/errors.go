package domain

import "errors"

// Sentinel errors for the marketplace core. The HTTP layer maps each of
// these to a status code in a single place (internal/api/error_handler.go).
var (
	// ErrValidation covers missing or malformed input (400).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned on a password mismatch (401).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountPending and ErrAccountRejected gate login for accounts
	// that have not cleared moderation (403). The messages differ so the
	// caller can tell which state blocked the login.
	ErrAccountPending  = errors.New("account is pending admin approval")
	ErrAccountRejected = errors.New("account has been rejected, contact an admin")

	// ErrForbidden is the authorization policy's deny result (403).
	ErrForbidden = errors.New("forbidden")

	ErrUserNotFound    = errors.New("user not found")
	ErrListingNotFound = errors.New("listing not found")

	// ErrEmailTaken signals a duplicate unique email on registration (409).
	ErrEmailTaken = errors.New("email already registered")

	// ErrDuplicatePublicID is raised by the store when an insert hits the
	// per-kind unique index on the public id. The allocator retries on it.
	ErrDuplicatePublicID = errors.New("public id already assigned")

	// ErrIDAllocation means the allocator exhausted its retry budget (409,
	// transient: the caller may retry the whole create).
	ErrIDAllocation = errors.New("could not allocate a unique public id")
)
