package http

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, 3, time.Minute)
	t.Cleanup(rl.Stop)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	key := "1.2.3.4"

	for i := 0; i < 3; i++ {
		if !rl.Allow(key) {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Fatalf("expected fourth request to be denied")
	}

	current = current.Add(time.Second)

	if !rl.Allow(key) {
		t.Fatalf("expected request after refill to be allowed")
	}
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 0.001, time.Minute)
	t.Cleanup(rl.Stop)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	if !rl.Allow("1.2.3.4") {
		t.Fatalf("expected first client to be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatalf("expected first client to be exhausted")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatalf("expected second client to have its own budget")
	}
}

func TestRateLimiterPrunesStaleClients(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	t.Cleanup(rl.Stop)

	current := time.Unix(0, 0)
	rl.now = func() time.Time {
		return current
	}

	rl.Allow("1.2.3.4")

	current = current.Add(2 * time.Minute)
	rl.pruneStale()

	rl.mu.Lock()
	_, present := rl.buckets["1.2.3.4"]
	rl.mu.Unlock()

	if present {
		t.Fatalf("expected stale client to be pruned")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Minute)
	rl.Stop()
	rl.Stop()
}
