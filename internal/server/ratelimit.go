package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// limiterCleanupInterval is how often idle client limiters are dropped.
	limiterCleanupInterval = 5 * time.Minute
	// limiterTTL is how long an idle client keeps its limiter.
	limiterTTL = 10 * time.Minute
)

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perSecond rate.Limit
	burst     int
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute with the given burst.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters:  make(map[string]*limiterEntry),
		perSecond: rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:     burst,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}

	go rl.cleanupLoop()
	return rl
}

// Allow reports whether a request from client may proceed.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, exists := rl.limiters[client]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.perSecond, rl.burst)}
		rl.limiters[client] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// RetryAfter estimates how long an exhausted client waits for its next token.
func (rl *RateLimiter) RetryAfter() time.Duration {
	if rl.perSecond <= 0 {
		return time.Minute
	}
	wait := time.Duration(float64(time.Second) / float64(rl.perSecond))
	if wait < time.Second {
		wait = time.Second
	}
	return wait
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for client, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(rl.limiters, client)
			removed++
		}
	}
	return removed
}
