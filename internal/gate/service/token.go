package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dramatize/streamgate/internal/gate/domain"
	"github.com/dramatize/streamgate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpiry is how long a stream token stays valid unless
// configured otherwise.
const DefaultTokenExpiry = time.Hour

// Validation failures stay typed internally so logs and metrics can tell a
// replayed token from an expired one. The HTTP layer collapses all of them
// into one generic rejection.
var (
	ErrTokenMalformed  = errors.New("gate: malformed token")
	ErrBadSignature    = errors.New("gate: bad token signature")
	ErrTokenExpired    = errors.New("gate: token expired")
	ErrBindingMismatch = errors.New("gate: token binding mismatch")
)

// TokenService mints and validates stream access tokens. Both operations
// are pure functions of their inputs plus the signing secret; the service
// holds no per-session state and needs no locks.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier

	Expiry     time.Duration
	CDNBaseURL string

	// Now is a test seam; nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) expiry() time.Duration {
	if s.Expiry > 0 {
		return s.Expiry
	}
	return DefaultTokenExpiry
}

// Issue mints a signed token binding the viewer, the video, the IP the
// request arrived from and the viewer's session. The caller must have
// already confirmed the viewer may stream this video; issuance itself
// writes nothing anywhere.
func (s *TokenService) Issue(userID, videoID, clientIP, sessionID string) (domain.IssuedToken, error) {
	now := s.now()

	claims := domain.StreamClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry())),
		},
		UserID:    userID,
		VideoID:   videoID,
		ClientIP:  clientIP,
		SessionID: sessionID,
	}

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("issue stream token: %w", err)
	}

	return domain.IssuedToken{
		StreamURL: s.SecurePlaylistURL(videoID, token),
		Token:     token,
		ExpiresIn: int(s.expiry().Seconds()),
	}, nil
}

// SecurePlaylistURL builds the tokenized manifest URL handed to the player.
// The t parameter only busts caches; it is not a security control.
func (s *TokenService) SecurePlaylistURL(videoID, token string) string {
	return fmt.Sprintf("%s/%s/playlist.m3u8?token=%s&t=%d",
		s.CDNBaseURL, videoID, token, s.now().UnixMilli())
}

// Validate checks signature and expiry, then the (IP, session) binding
// against what the current request presents. Every manifest, segment and
// key fetch goes through here independently; nothing is cached between
// fetches, which bounds a leaked URL to the token's remaining lifetime on
// the original IP and session.
func (s *TokenService) Validate(raw, clientIP, sessionID string) (domain.StreamClaims, error) {
	var claims domain.StreamClaims
	if err := s.Verifier.Verify(raw, &claims); err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			return domain.StreamClaims{}, ErrTokenExpired
		case errors.Is(err, jwtx.ErrMalformed):
			return domain.StreamClaims{}, ErrTokenMalformed
		default:
			return domain.StreamClaims{}, ErrBadSignature
		}
	}

	ipOK := subtle.ConstantTimeCompare([]byte(claims.ClientIP), []byte(clientIP)) == 1
	sidOK := subtle.ConstantTimeCompare([]byte(claims.SessionID), []byte(sessionID)) == 1
	if !ipOK || !sidOK {
		return domain.StreamClaims{}, ErrBindingMismatch
	}

	return claims, nil
}
