package core

import (
	"errors"
	"fmt"
)

// User errors
var (
	ErrUserExists         = errors.New("user already exists")          // 409 Conflict
	ErrUserNotFound       = errors.New("user not found")               // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid username or password") // 400 Bad Request
)

// Session errors
var (
	ErrUnauthenticated = errors.New("authentication required")             // 401
	ErrSessionRevoked  = errors.New("session user could not be resolved") // 302 -> login
	ErrCacheNotFound   = errors.New("user not found in cache")
)

// Joke errors
var (
	ErrJokeNotFound = errors.New("joke not found")              // 404
	ErrForbidden    = errors.New("joke belongs to another user") // 403
)

// Validation errors (client input)
var (
	ErrMalformedSubmission = errors.New("form not submitted correctly") // 400
	ErrUnsupportedIntent   = errors.New("intent not supported")         // 400
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired     = errors.New("storage adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")    // 500
	ErrSecretRequired      = errors.New("session secret is required")  // 500
	ErrSecretTooShort      = errors.New("session secret is too short") // 500
)

// AuthRedirect tells the HTTP boundary to stop handling the request and send
// the client to Location instead. SetCookie, when set, must be attached to
// that redirect.
type AuthRedirect struct {
	Location  string
	SetCookie string
	Reason    error
}

func (r *AuthRedirect) Error() string {
	return fmt.Sprintf("redirect to %s: %v", r.Location, r.Reason)
}

func (r *AuthRedirect) Unwrap() error {
	return r.Reason
}
