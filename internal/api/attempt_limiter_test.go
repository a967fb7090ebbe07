package api

import (
	"fmt"
	"testing"
	"time"
)

func TestAttemptLimiterWindow(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(1, time.Hour)
	key := "127.0.0.1"
	now := time.Date(2026, 2, 19, 9, 0, 0, 0, time.UTC)

	limiter.record(key, now.Add(-2*time.Hour))
	if limiter.blocked(key, now) {
		t.Fatal("expected old attempt to be pruned from active window")
	}

	limiter.record(key, now.Add(-30*time.Minute))
	if !limiter.blocked(key, now) {
		t.Fatal("expected one recent attempt to hit limit 1")
	}
	if limiter.blocked(key, now.Add(31*time.Minute)) {
		t.Fatal("expected attempt to expire once the window passes")
	}
}

func TestAttemptLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(reportAttemptLimit, reportAttemptWindow)
	now := time.Now().UTC()
	for range reportAttemptLimit {
		limiter.record("10.0.0.1", now)
	}

	if !limiter.blocked("10.0.0.1", now) {
		t.Fatal("expected first client to be limited")
	}
	if limiter.blocked("10.0.0.2", now) {
		t.Fatal("expected second client to be unaffected")
	}
}

func TestAttemptLimiterForgetsIdleClients(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(reportAttemptLimit, reportAttemptWindow)
	start := time.Date(2026, 2, 19, 9, 0, 0, 0, time.UTC)
	for index := range 1000 {
		limiter.record(fmt.Sprintf("10.0.%d.%d", index/256, index%256), start)
	}
	if got := limiter.tracked(); got != 1000 {
		t.Fatalf("expected 1000 tracked clients, got %d", got)
	}

	limiter.record("10.9.9.9", start.Add(reportAttemptWindow+time.Second))
	if got := limiter.tracked(); got != 1 {
		t.Fatalf("expected idle clients to be swept, %d still tracked", got)
	}
}
