package clock

import "time"

// Clock is the single source of "now" for the engine. Date-sensitive logic
// (check-in windows, no-show sweeps) must never read time.Now directly.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// DateOf truncates t to its calendar date at UTC midnight. Hotel nights are
// date-granular; all interval arithmetic works on these normalized instants.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date according to c.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

type MockClock struct {
	currentTime time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

func (c *MockClock) Now() time.Time {
	return c.currentTime
}

func (c *MockClock) Set(t time.Time) {
	c.currentTime = t
}

func (c *MockClock) Add(d time.Duration) {
	c.currentTime = c.currentTime.Add(d)
}

// AdvanceDays moves the mock clock forward by whole days.
func (c *MockClock) AdvanceDays(n int) {
	c.currentTime = c.currentTime.AddDate(0, 0, n)
}
