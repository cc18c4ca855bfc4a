package starsys

import (
	"sync"
	"time"
)

// TimeSource provides the wall clock reading used by a Clock.
type TimeSource interface {
	Now() time.Time
}

// RealTime reads the system's monotonic clock.
type RealTime struct{}

// Now implements the TimeSource interface.
func (RealTime) Now() time.Time {
	return time.Now()
}

// ManualTime is a TimeSource which only moves when told to.
type ManualTime struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualTime returns a ManualTime starting at the provided time.
func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{now: start}
}

// Now implements the TimeSource interface.
func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set sets the current time.
func (m *ManualTime) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the current time forward by d.
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// FixedStep is a TimeSource which advances by Step every time it is read.
// It is meant for headless runs where each frame must last exactly the same.
type FixedStep struct {
	Step time.Duration
	now  time.Time
}

// NewFixedStep returns a FixedStep source.
func NewFixedStep(start time.Time, step time.Duration) *FixedStep {
	return &FixedStep{Step: step, now: start}
}

// Now implements the TimeSource interface.
func (f *FixedStep) Now() time.Time {
	f.now = f.now.Add(f.Step)
	return f.now
}

// Clock measures the wall clock time elapsed between two polls.
type Clock struct {
	src   TimeSource
	last  time.Time
	delta time.Duration
}

// NewClock returns a new clock. The first measurement returns the time elapsed since this call.
func NewClock(src TimeSource) *Clock {
	if src == nil {
		src = RealTime{}
	}
	return &Clock{src: src, last: src.Now()}
}

// MeasureTime returns the time elapsed since the last call and resets the reference.
func (c *Clock) MeasureTime() time.Duration {
	now := c.src.Now()
	c.delta = now.Sub(c.last)
	c.last = now
	return c.delta
}

// Delta returns the last measured duration.
func (c *Clock) Delta() time.Duration {
	return c.delta
}
