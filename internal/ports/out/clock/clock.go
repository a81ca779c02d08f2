package clock

import "time"

// Clock provides time to the application.
// Using an interface enables deterministic tests via a controllable implementation.
//
// Now is expected to carry the gym's configured location: "today" for membership
// status is midnight of Now() in that location.
type Clock interface {
	Now() time.Time
}
