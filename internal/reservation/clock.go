package reservation

import "time"

// Clock supplies the current moment.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same moment.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
