package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TokenSecret      string        // Required in prod: HS256 signing secret for stream tokens (>= 32 bytes)
	TokenExpiry      time.Duration // Optional: stream token lifetime (default: 1h)
	AllowedDomains   []string      // Referer allow-list (default: localhost)
	CDNBaseURL       string        // Base URL embedded in issued stream URLs (default: http://localhost:{port}/api/video)
	EncryptionSecret string        // Required in prod: secret the per-video content keys derive from
	MediaRoot        string        // Directory with one subdirectory per video (default: ./videos)
	DatabaseFile     string        // Path to SQLite catalog file (default: ./streamgate.db)
	SeedVideos       string        // Optional, dev only: "id:title,id:title" rows inserted at startup

	RateLimitBackend string // Rate limit backend (memory, redis) (default: memory)
	RedisAddr        string // Redis address, required when backend is redis

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		TokenSecret:      os.Getenv("STREAMGATE_TOKEN_SECRET"),
		TokenExpiry:      getEnvDurationOrDefault("STREAMGATE_TOKEN_EXPIRY", time.Hour),
		EncryptionSecret: os.Getenv("STREAMGATE_ENCRYPTION_SECRET"),
		MediaRoot:        getEnvOrDefault("STREAMGATE_MEDIA_ROOT", "videos"),
		DatabaseFile:     getEnvOrDefault("STREAMGATE_DATABASE_FILE", "streamgate.db"),
		SeedVideos:       os.Getenv("STREAMGATE_SEED_VIDEOS"),

		RateLimitBackend: getEnvOrDefault("RATE_LIMIT_BACKEND", "memory"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	domains := getEnvOrDefault("STREAMGATE_ALLOWED_DOMAINS", "localhost")
	for _, d := range strings.Split(domains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			cfg.AllowedDomains = append(cfg.AllowedDomains, d)
		}
	}

	cfg.CDNBaseURL = getEnvOrDefault("STREAMGATE_CDN_BASE_URL",
		"http://localhost:"+strconv.Itoa(cfg.Port)+"/api/video")
	cfg.CDNBaseURL = strings.TrimRight(cfg.CDNBaseURL, "/")

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds (matches the old EXPIRY=3600 style)
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
