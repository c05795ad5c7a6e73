package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LocalLimiter is an in-process token bucket limiter with one bucket per
// key. Suitable for single-instance deployments; a multi-instance setup
// should use RedisLimiter so all instances share one window.
type LocalLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// visitor tracks the bucket and last seen time for one key.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocal creates a limiter that replenishes one token per interval with
// the given burst capacity.
func NewLocal(interval time.Duration, burst int) *LocalLimiter {
	l := &LocalLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(interval),
		burst:    burst,
	}
	go l.cleanupVisitors()
	return l
}

func (l *LocalLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	limiter := v.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

// cleanupVisitors drops stale buckets so the visitor map does not grow
// without bound. Checks every minute, removes entries idle longer than
// three minutes.
func (l *LocalLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		l.mu.Lock()
		for key, v := range l.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(l.visitors, key)
			}
		}
		l.mu.Unlock()
	}
}
