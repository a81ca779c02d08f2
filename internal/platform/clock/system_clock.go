package clock

import "time"

// SystemClock returns the current wall-clock time in the gym's location, so that the
// calendar day of Now() is the gym's local day.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock in loc; nil means UTC.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{loc: loc}
}

func (c SystemClock) Now() time.Time {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
