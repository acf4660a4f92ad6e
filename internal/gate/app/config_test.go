package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, time.Hour, cfg.TokenExpiry)
	require.Equal(t, []string{"localhost"}, cfg.AllowedDomains)
	require.Equal(t, "http://localhost:8080/api/video", cfg.CDNBaseURL)
	require.Equal(t, "videos", cfg.MediaRoot)
	require.Equal(t, "streamgate.db", cfg.DatabaseFile)
	require.Equal(t, "memory", cfg.RateLimitBackend)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STREAMGATE_TOKEN_EXPIRY", "3600")
	t.Setenv("STREAMGATE_ALLOWED_DOMAINS", "dramatize.example, partner.tv")
	t.Setenv("STREAMGATE_CDN_BASE_URL", "https://cdn.dramatize.example/api/video/")
	t.Setenv("PORT", "9090")

	cfg := LoadConfig()

	// Bare integers read as seconds, matching the old EXPIRY=3600 style.
	require.Equal(t, time.Hour, cfg.TokenExpiry)
	require.Equal(t, []string{"dramatize.example", "partner.tv"}, cfg.AllowedDomains)
	// Trailing slash trimmed so issued URLs never get a double slash.
	require.Equal(t, "https://cdn.dramatize.example/api/video", cfg.CDNBaseURL)
	require.Equal(t, 9090, cfg.Port)
}
