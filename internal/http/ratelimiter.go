package http

import (
	"sync"
	"time"
)

type bucket struct {
	tokens  float64
	updated time.Time
	seen    time.Time
}

// RateLimiter is a token bucket limiter keyed by client identifier. Buckets
// for idle clients are pruned after the configured TTL.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  float64
	refillRate float64
	ttl        time.Duration
	now        func() time.Time
	done       chan struct{}
	stopOnce   sync.Once
}

// NewRateLimiter constructs a rate limiter with the provided settings.
func NewRateLimiter(maxTokens int, refillPerSecond float64, ttl time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  float64(maxTokens),
		refillRate: refillPerSecond,
		ttl:        ttl,
		now:        time.Now,
		done:       make(chan struct{}),
	}

	if ttl > 0 {
		go rl.pruneLoop()
	}

	return rl
}

// Allow consumes a token for the provided key if one is available.
func (rl *RateLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.buckets[key]
	if !ok {
		client = &bucket{tokens: rl.maxTokens, updated: now, seen: now}
		rl.buckets[key] = client
	}

	elapsed := now.Sub(client.updated).Seconds()
	if elapsed > 0 {
		client.tokens += elapsed * rl.refillRate
		if client.tokens > rl.maxTokens {
			client.tokens = rl.maxTokens
		}
		client.updated = now
	}

	client.seen = now

	if client.tokens < 1 {
		return false
	}

	client.tokens--
	return true
}

// Stop ends the background pruning goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}

func (rl *RateLimiter) pruneLoop() {
	ticker := time.NewTicker(rl.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.pruneStale()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) pruneStale() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, client := range rl.buckets {
		if now.Sub(client.seen) > rl.ttl {
			delete(rl.buckets, key)
		}
	}
}
