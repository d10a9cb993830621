/*
Package clockx provides the timer capability used by the avatar scheduler.

It abstracts time.AfterFunc behind the Clock interface so that the scheduler can be driven
by the wall clock in production and by a manually advanced Fake clock in tests, and it defines
Slot, the single pending timer a presence record may hold for each timer kind.
*/
package clockx

import "time"

// Timer is a pending deferred action. Stop reports whether the call prevented the action from firing.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred actions.
type Clock interface {
	// Now returns the current time of the clock.
	Now() time.Time

	// AfterFunc arranges for f to be called once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
