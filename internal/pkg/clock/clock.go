package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant for temporal comparisons.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a settable clock, mostly for tests.
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixed creates a Fixed clock stopped at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
