package auth

import "errors"

var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers every token verification failure: bad
	// signature, expired, malformed, wrong purpose, consumed, or subject no
	// longer present. Callers never learn which check failed.
	ErrInvalidToken = errors.New("invalid token")
)
