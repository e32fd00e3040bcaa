package vision

import (
	"sync"
	"time"
)

// Limiter caps the number of requests started within a sliding time
// window. Acquire blocks the caller until a slot frees up, so a single
// Limiter shared across goroutines serializes their access to the
// detection service at the configured rate.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewLimiter creates a limiter allowing limit requests per window. A
// limit of zero or less disables limiting.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Acquire claims a request slot, blocking until one is available
func (l *Limiter) Acquire() {
	if l == nil || l.limit <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		now := l.now()
		l.prune(now)
		if len(l.stamps) < l.limit {
			l.stamps = append(l.stamps, now)
			return
		}
		// The oldest in-window request determines when the next slot
		// opens.
		l.sleep(l.window - now.Sub(l.stamps[0]))
	}
}

// prune drops timestamps that have aged out of the window. Callers must
// hold the mutex.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	l.stamps = l.stamps[i:]
}
