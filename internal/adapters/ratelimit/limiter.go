package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-phone sliding-window counter. Timestamps older than the
// window are pruned lazily on each check; phones never interfere with each
// other. A throttled sweep drops phones whose hits have all aged out so
// the map does not grow with every number that ever dialed.
type Limiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	hits      map[string][]time.Time
	now       func() time.Time
	lastSweep time.Time
}

func New(window time.Duration, max int) *Limiter {
	return &Limiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *Limiter) Check(phone string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	l.sweepLocked(now, cutoff)

	kept := l.hits[phone][:0]
	for _, t := range l.hits[phone] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.hits[phone] = kept
		retry := int(kept[0].Add(l.window).Sub(now).Seconds())
		if retry < 1 {
			retry = 1
		}
		return false, retry
	}

	l.hits[phone] = append(kept, now)
	return true, 0
}

// sweepLocked runs at most once per window and deletes phones whose most
// recent hit is already outside it.
func (l *Limiter) sweepLocked(now time.Time, cutoff time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for phone, ts := range l.hits {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(l.hits, phone)
		}
	}
}
