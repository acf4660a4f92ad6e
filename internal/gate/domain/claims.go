package domain

import "github.com/golang-jwt/jwt/v5"

// StreamClaims is the signed payload of a stream access token. A token is
// valid for exactly one (user, video, client IP, session) tuple and only
// until its expiry; nothing about it is persisted server-side, so any
// instance can validate it from the payload plus the current request alone.
//
// The JSON field names are the wire format the web player already consumes.
type StreamClaims struct {
	jwt.RegisteredClaims

	UserID    string `json:"userId"`
	VideoID   string `json:"videoId"`
	ClientIP  string `json:"userIP"`
	SessionID string `json:"sessionId"`
}

// IssuedToken is the response body of the secure-url endpoint.
type IssuedToken struct {
	StreamURL string `json:"streamUrl"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // seconds until expiry
}
