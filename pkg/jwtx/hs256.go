package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretBytes is the smallest HS256 secret we accept. Anything shorter
// than the hash output weakens the MAC.
const MinSecretBytes = 32

// HS256 signs and verifies tokens with a single shared secret. Both
// operations are pure functions of the input plus the secret, so a value is
// safe for concurrent use.
type HS256 struct {
	secret []byte
}

// NewHS256 builds a symmetric signer/verifier from the server-held secret.
func NewHS256(secret []byte) (*HS256, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("jwtx: HS256 secret must be at least %d bytes, got %d", MinSecretBytes, len(secret))
	}
	return &HS256{secret: secret}, nil
}

func (h *HS256) Alg() string { return "HS256" }

// Sign produces a compact JWS over the given claims.
func (h *HS256) Sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing failed: %w", err)
	}
	return signed, nil
}

// Verify parses raw into the provided claims value, enforcing HS256 and the
// registered time claims (exp required, nbf/iat when present). The returned
// error is always one of the package sentinels.
func (h *HS256) Verify(raw string, into jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(raw, into, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	})
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrAlgMismatch), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	default:
		// Claims that fail their own validation land here too; treat them
		// the same as a bad signature rather than leaking detail upward.
		return ErrInvalidSig
	}
}
