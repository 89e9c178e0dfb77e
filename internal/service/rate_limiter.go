package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// OwnerRateLimiter hands each owner their own token bucket.
type OwnerRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewOwnerRateLimiter allows perMinute requests per owner with the given burst.
// A non-positive perMinute disables limiting. Buckets idle for longer than
// idleTTL are dropped by a background sweep.
func NewOwnerRateLimiter(perMinute, burst int, idleTTL time.Duration) *OwnerRateLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	l := &OwnerRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		idleTTL:  idleTTL,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow consumes one token for ownerID.
func (l *OwnerRateLimiter) Allow(ownerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ownerID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ownerID] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Stop ends the cleanup goroutine.
func (l *OwnerRateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *OwnerRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle(time.Now())
		case <-l.stop:
			return
		}
	}
}

func (l *OwnerRateLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for owner, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, owner)
		}
	}
}
