// Package jwtx wraps github.com/golang-jwt/jwt/v5 with a small, typed
// surface for symmetric (HS256) stream tokens. Failures are reported as
// sentinel errors so callers can tell a signature problem from an expiry
// internally while still collapsing them at the API boundary.
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Signer is our interface for anything that can sign JWT claims.
type Signer interface {
	Alg() string
	Sign(claims jwt.Claims) (string, error)
}

// Verifier validates a JWT and fills the provided claims value if it's legit.
type Verifier interface {
	Verify(raw string, into jwt.Claims) error
}
