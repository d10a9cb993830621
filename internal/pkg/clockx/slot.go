package clockx

import "time"

// Slot holds at most one pending timer of a given kind.
//
// Every Arm and Cancel bumps the slot sequence. A callback receives the sequence it was armed
// with and must check Current before acting, so a timer that already started firing when it
// was cancelled cannot apply a stale action. Slot is not safe for concurrent use; callers
// serialize access with their own lock and take the same lock inside fire.
type Slot struct {
	timer Timer
	seq   uint64
}

// Arm cancels the pending timer, if any, and schedules fire after d.
func (s *Slot) Arm(c Clock, d time.Duration, fire func(seq uint64)) {
	s.Cancel()

	seq := s.seq
	s.timer = c.AfterFunc(d, func() {
		fire(seq)
	})
}

// Cancel stops the pending timer. Cancelling an empty slot is a no-op.
func (s *Slot) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
}

// Current reports whether seq belongs to the timer still pending in the slot.
func (s *Slot) Current(seq uint64) bool {
	return s.timer != nil && s.seq == seq
}

// Release empties the slot after its timer has fired.
func (s *Slot) Release() {
	s.timer = nil
}

// Pending reports whether a timer is armed.
func (s *Slot) Pending() bool {
	return s.timer != nil
}
