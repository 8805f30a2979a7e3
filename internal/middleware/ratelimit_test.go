package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterExhaustsAndRefills(t *testing.T) {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     3,
		interval: time.Minute,
	}

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Errorf("request beyond the bucket should be rejected")
	}

	// A different IP has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Errorf("fresh IP should pass")
	}

	// Aging the bucket past the interval refills it.
	rl.buckets["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Minute)
	if !rl.allow("10.0.0.1") {
		t.Errorf("refilled bucket should pass")
	}
}
