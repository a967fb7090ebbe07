package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// attemptLimiter allows at most limit attempts per client within a sliding
// window. Clients with no attempt inside the window are forgotten.
type attemptLimiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	attempts  map[string][]time.Time
	lastSweep time.Time
}

func newAttemptLimiter(limit int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
	}
}

func (limiter *attemptLimiter) blocked(key string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	limiter.sweepLocked(now)
	return len(limiter.recentLocked(key, now)) >= limiter.limit
}

func (limiter *attemptLimiter) record(key string, now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	limiter.sweepLocked(now)
	limiter.attempts[key] = append(limiter.recentLocked(key, now), now)
}

// tracked reports how many clients currently hold attempts.
func (limiter *attemptLimiter) tracked() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return len(limiter.attempts)
}

func (limiter *attemptLimiter) recentLocked(key string, now time.Time) []time.Time {
	values := limiter.attempts[key]
	threshold := now.Add(-limiter.window)
	start := 0
	for start < len(values) && !values[start].After(threshold) {
		start++
	}
	if start == len(values) {
		delete(limiter.attempts, key)
		return nil
	}
	values = values[start:]
	limiter.attempts[key] = values
	return values
}

// sweepLocked drops idle clients at most once per window.
func (limiter *attemptLimiter) sweepLocked(now time.Time) {
	if now.Sub(limiter.lastSweep) < limiter.window {
		return
	}
	limiter.lastSweep = now
	for key := range limiter.attempts {
		limiter.recentLocked(key, now)
	}
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
