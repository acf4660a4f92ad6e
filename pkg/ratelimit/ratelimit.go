// Package ratelimit provides per-key request limiting behind a small
// interface so the HTTP layer never owns counter state. Two backends exist:
// an in-process token bucket and a Redis fixed window for multi-instance
// deployments.
package ratelimit

import (
	"context"
	"os"
	"strconv"
	"time"
)

// Decision is the outcome of a rate-limit check for one key.
type Decision struct {
	Allowed bool
	// RetryAfter hints when the next request for this key could succeed.
	// Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

// Limiter answers whether the request identified by key may proceed.
// Implementations own their own counter state and must be safe under
// concurrent access from many simultaneous requests.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config defines the rate limiting parameters.
type Config struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// Common rate limit profiles for different endpoint types
// These can be overridden via environment variables (see init() below)
var (
	// VideoLimit for the video security route group (manifest, segment and
	// key fetches plus token issuance). 100 requests per 15 minutes per IP,
	// all available as a burst, matching a player that fetches a manifest
	// and a few dozen segments.
	// Override with: RATELIMIT_VIDEO_REQUESTS, RATELIMIT_VIDEO_WINDOW_SEC, RATELIMIT_VIDEO_BURST
	VideoLimit = Config{
		RequestsPerWindow: 100,
		Window:            15 * time.Minute,
		Burst:             100,
	}

	// LenientLimit for health endpoints (monitoring systems poll frequently)
	// Override with: RATELIMIT_LENIENT_REQUESTS, RATELIMIT_LENIENT_WINDOW_SEC, RATELIMIT_LENIENT_BURST
	LenientLimit = Config{
		RequestsPerWindow: 100,
		Window:            time.Minute,
		Burst:             100,
	}
)

func init() {
	// Allow overriding rate limits via environment variables (useful for testing)
	VideoLimit = ParseConfigFromEnv("VIDEO", VideoLimit)
	LenientLimit = ParseConfigFromEnv("LENIENT", LenientLimit)
}

// ParseConfigFromEnv reads rate limit configuration from environment
// variables following the pattern RATELIMIT_{prefix}_{field}, for example
// RATELIMIT_VIDEO_REQUESTS, RATELIMIT_VIDEO_WINDOW_SEC, RATELIMIT_VIDEO_BURST.
func ParseConfigFromEnv(prefix string, defaultConfig Config) Config {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	return config
}
