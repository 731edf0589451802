package clock

import (
	"sync"
	"time"
)

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct{}

func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// ManualClocker is a Clocker that only moves when told to.
//
// Safe for concurrent use.
type ManualClocker struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual returns a ManualClocker frozen at start.
func NewManual(start time.Time) *ManualClocker {
	return &ManualClocker{now: start}
}

func (m *ManualClocker) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *ManualClocker) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set jumps the clock to t.
func (m *ManualClocker) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
