package testutil

import "time"

// FakeClock returns a fixed instant until advanced, so tests can walk a loan
// through the escalation tiers deterministically.
type FakeClock struct {
	Current time.Time
}

func NewFakeClock(at time.Time) *FakeClock {
	return &FakeClock{Current: at}
}

func (c *FakeClock) Now() time.Time {
	return c.Current
}

func (c *FakeClock) Location() *time.Location {
	return c.Current.Location()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}

func (c *FakeClock) Set(at time.Time) {
	c.Current = at
}
