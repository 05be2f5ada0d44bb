package server

import (
	"sync"
	"time"
)

const (
	// defaultAskLimit is how many ask requests one client may make per
	// window.
	defaultAskLimit = 20

	// defaultAskWindow is the fixed rate-limit window.
	defaultAskWindow = 60 * time.Second
)

// fixedWindowLimiter counts requests per key in fixed windows. A window
// resets wholesale at its boundary, so a burst straddling two windows can
// briefly reach twice the limit; good enough for abuse protection.
type fixedWindowLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	entries map[string]*windowEntry
}

type windowEntry struct {
	start time.Time
	count int
}

func newFixedWindowLimiter(limit int, window time.Duration) *fixedWindowLimiter {
	return &fixedWindowLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*windowEntry),
	}
}

// Allow consumes one slot for key. When the limit is exhausted it returns
// false plus the time until the window resets.
func (l *fixedWindowLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// Opportunistically drop expired windows so the map stays bounded by
	// the number of recently active clients.
	for k, e := range l.entries {
		if now.Sub(e.start) >= l.window {
			delete(l.entries, k)
		}
	}

	e := l.entries[key]
	if e == nil {
		l.entries[key] = &windowEntry{start: now, count: 1}
		return true, 0
	}

	if e.count >= l.limit {
		return false, l.window - now.Sub(e.start)
	}

	e.count++
	return true, 0
}
