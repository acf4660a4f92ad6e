package httpx

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/dramatize/streamgate/pkg/ratelimit"
	"github.com/dramatize/streamgate/pkg/slogx"
)

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes (e.g., IP address, session id, etc.)
type KeyExtractor func(*http.Request) string

// ClientIP extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
// Those headers are trusted unconditionally, which assumes a fronting proxy
// that overwrites them; exposed directly to clients, a caller can spoof its
// address for both rate-limit keying and the token's IP binding.
func ClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (comma-separated list)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// IPKeyExtractor keys rate limiting by client IP.
func IPKeyExtractor(r *http.Request) string {
	return ClientIP(r)
}

// SessionKeyExtractor keys rate limiting by viewer session id.
// Returns empty string if no session middleware ran.
func SessionKeyExtractor(r *http.Request) string {
	return SessionID(r.Context())
}

// CompositeKeyExtractor combines multiple key extractors with a separator.
// Example: CompositeKeyExtractor(":", IPKeyExtractor, SessionKeyExtractor)
// would produce keys like "192.168.1.1:01J9..."
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// RateLimit creates a rate limiting middleware that delegates counting to
// the injected limiter. The keyExtractor determines how requests are grouped.
// cfg is only used for the advisory response headers; the limiter itself was
// built from (possibly the same) config at wiring time.
func RateLimit(l ratelimit.Limiter, cfg ratelimit.Config, keyExtractor KeyExtractor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			key := keyExtractor(r)
			if key == "" {
				// If we can't extract a key, allow the request but log it
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			decision, err := l.Allow(ctx, key)
			if err != nil {
				// Backend trouble fails open; the decision says so.
				log.Warn("rate limit backend error", "err", err)
			}

			if !decision.Allowed {
				retryAfter := max(int(decision.RetryAfter.Seconds()), 1)

				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", cfg.Window.String())

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteError(w, http.StatusTooManyRequests,
					"Too many video requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP creates a rate limiter that limits by IP address only.
func RateLimitByIP(l ratelimit.Limiter, cfg ratelimit.Config) Middleware {
	return RateLimit(l, cfg, IPKeyExtractor)
}
