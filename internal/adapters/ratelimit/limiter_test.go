package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(window time.Duration, max int) (*Limiter, *time.Time) {
	l := New(window, max)
	clock := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestCheckAllowsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 10)

	for i := 0; i < 10; i++ {
		allowed, _ := l.Check("+260975190740")
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, retry := l.Check("+260975190740")
	assert.False(t, allowed)
	assert.GreaterOrEqual(t, retry, 1)
	assert.LessOrEqual(t, retry, 60)
}

func TestCheckPhonesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Minute, 2)

	l.Check("+260975190740")
	l.Check("+260975190740")
	allowed, _ := l.Check("+260975190740")
	assert.False(t, allowed)

	allowed, _ = l.Check("+254712345678")
	assert.True(t, allowed)
}

func TestCheckWindowSlides(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 2)

	l.Check("+260975190740")
	*clock = clock.Add(30 * time.Second)
	l.Check("+260975190740")

	allowed, retry := l.Check("+260975190740")
	assert.False(t, allowed)
	assert.Equal(t, 30, retry)

	// The first hit falls out of the window; one slot frees up.
	*clock = clock.Add(31 * time.Second)
	allowed, _ = l.Check("+260975190740")
	assert.True(t, allowed)
}

func TestSweepDropsIdlePhones(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 10)

	l.Check("+260975190740")
	l.Check("+254712345678")
	assert.Len(t, l.hits, 2)

	// Both numbers go quiet; the next caller's check sweeps them out.
	*clock = clock.Add(2 * time.Minute)
	l.Check("+260961112233")

	assert.Len(t, l.hits, 1)
	assert.Contains(t, l.hits, "+260961112233")
}

func TestSweepKeepsActivePhones(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 10)

	l.Check("+260975190740")
	*clock = clock.Add(45 * time.Second)
	l.Check("+260975190740")

	// The sweep fires, but the phone's newest hit is still in the window.
	*clock = clock.Add(30 * time.Second)
	l.Check("+254712345678")

	assert.Len(t, l.hits, 2)
	assert.Contains(t, l.hits, "+260975190740")
}

func TestCheckRetryFloorsAtOneSecond(t *testing.T) {
	l, clock := newTestLimiter(time.Minute, 1)

	l.Check("+260975190740")
	*clock = clock.Add(time.Minute - time.Millisecond)

	allowed, retry := l.Check("+260975190740")
	assert.False(t, allowed)
	assert.Equal(t, 1, retry)
}
