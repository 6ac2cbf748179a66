package mtime

import "time"

// Clock abstracts the wall clock so use cases can be tested against a
// fixed instant.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time                  { return time.Now().UTC() }
func (SystemClock) Since(t time.Time) time.Duration { return time.Since(t) }

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time                  { return c.Instant }
func (c FixedClock) Since(t time.Time) time.Duration { return c.Instant.Sub(t) }
