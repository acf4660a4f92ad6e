package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Memory is an in-process Limiter backed by one token bucket per key.
// Counters live only in this process; use the Redis backend when several
// instances must share a view of a client's request volume.
type Memory struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

// NewMemory builds an in-memory limiter from a config profile.
func NewMemory(cfg Config) *Memory {
	ratePerSecond := float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()

	return &Memory{
		rate:        rate.Limit(ratePerSecond),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}
}

// Allow consumes one token for key. It never returns an error; the signature
// exists to satisfy Limiter.
func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	limiter := m.getLimiter(key)

	if limiter.Allow() {
		return Decision{Allowed: true}, nil
	}

	// Peek at when the next token becomes available without consuming it.
	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	return Decision{Allowed: false, RetryAfter: delay}, nil
}

// getLimiter retrieves or creates the token bucket for the given key.
func (m *Memory) getLimiter(key string) *rate.Limiter {
	// Fast path: limiter already exists
	if limiter, ok := m.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	// Slow path: create new limiter
	limiter := rate.NewLimiter(m.rate, m.burst)
	actual, _ := m.limiters.LoadOrStore(key, limiter)

	// Periodic cleanup to prevent memory leak
	m.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup removes limiters that haven't been used recently so
// ephemeral client IPs don't accumulate forever.
func (m *Memory) maybeCleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Only cleanup once every 5 minutes
	if time.Since(m.lastCleanup) < 5*time.Minute {
		return
	}

	m.lastCleanup = time.Now()

	// A limiter with a full bucket hasn't been touched for at least one
	// window; dropping it loses nothing.
	m.limiters.Range(func(key, value any) bool {
		limiter := value.(*rate.Limiter)
		if limiter.Tokens() >= float64(m.burst) {
			m.limiters.Delete(key)
		}
		return true
	})
}
