package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. The cause (unknown
	// username vs wrong password) is never disclosed to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateIdentity indicates a registration conflict on username or email.
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// ErrInvalidToken covers malformed, tampered and expired session tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrValidation indicates rejected form input.
	ErrValidation = errors.New("validation failed")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
