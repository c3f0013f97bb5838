package service

import (
	"sync"
	"time"
)

// RateLimiter keeps a sliding window of attempt timestamps per identifier
// (normally the lowercased booking email). State is process-local; a restart
// resets it, which is acceptable for an abuse brake rather than a quota.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string][]time.Time
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow records an attempt for id and reports whether it stays within the
// limit for the rolling window.
func (l *RateLimiter) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.attempts[id][:0]
	for _, t := range l.attempts[id] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.attempts[id] = kept
		return false
	}
	l.attempts[id] = append(kept, now)
	return true
}

// Prune drops identifiers whose every attempt fell out of the window.
func (l *RateLimiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for id, times := range l.attempts {
		live := false
		for _, t := range times {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.attempts, id)
		}
	}
}
