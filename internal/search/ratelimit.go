package search

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Allow(ip string) bool
}

// IPRateLimiter is a token bucket per client IP: cap requests burst, refilled
// evenly over refill.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewIPRateLimiter(cap int, refill time.Duration) *IPRateLimiter {
	if cap <= 0 {
		return &IPRateLimiter{limiters: make(map[string]*rate.Limiter), limit: rate.Inf, burst: 1}
	}
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(refill / time.Duration(cap)),
		burst:    cap,
	}
}

func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = l
	}
	rl.mu.Unlock()
	return l.Allow()
}
