// Package ratelimit gates inbound messages per sender with a sliding window.
// Rejections never touch conversation state; the limiter sits entirely in
// front of the engine.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	max    int
	window time.Duration

	mu     sync.Mutex
	events map[string][]time.Time
}

func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		events: make(map[string][]time.Time),
	}
}

// Allow records the event and reports whether it is within the limit. A
// rejected event is not recorded, and retryAfter says how long until the
// oldest in-window event expires.
func (l *Limiter) Allow(key string, now time.Time) (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	kept := l.events[key][:0]
	for _, ts := range l.events[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		l.events[key] = kept
		return false, l.window - now.Sub(kept[0])
	}

	l.events[key] = append(kept, now)
	return true, 0
}
