// Package clock holds the UTC time primitives used by billing date math.
// Every value returned here is in UTC.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System is the wall clock in UTC.
var System Clock = systemClock{}

// FixedClock always returns the same instant until moved with Set or Advance.
type FixedClock struct {
	mu sync.RWMutex
	t  time.Time
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) *FixedClock {
	return &FixedClock{t: t.UTC()}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t.UTC()
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// StartOfDay returns t's date at 00:00:00.
func StartOfDay(t time.Time) time.Time {
	return Combine(t, 0, 0, 0)
}

// EndOfDay returns t's date at 23:59:59.
func EndOfDay(t time.Time) time.Time {
	return Combine(t, 23, 59, 59)
}

// Today returns the current date at 00:00:00.
func Today(c Clock) time.Time {
	return StartOfDay(c.Now())
}

// EndOfYesterday returns the previous date at 23:59:59.
func EndOfYesterday(c Clock) time.Time {
	return EndOfDay(Today(c).AddDate(0, 0, -1))
}

// Combine joins the date part of date with the given wall time.
func Combine(date time.Time, hour, minute, second int) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, second, 0, time.UTC)
}

// Min returns the earlier of a and b.
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// DaysBetween returns the number of whole days from a to b, negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(b.UTC().Sub(a.UTC()) / (24 * time.Hour))
}
