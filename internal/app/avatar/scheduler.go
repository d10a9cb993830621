/*
Package avatar contains the animation scheduler that drives the on-screen chat avatars.

This file defines the Scheduler, which maps chat messages and control calls to per-user state
transitions (idle, walking), tracks facing, applies animation identifiers to visual handles,
and arms the timers that revert walking avatars to idle.
*/
package avatar

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"chatavatars/internal/app/presence"
	"chatavatars/internal/pkg/clockx"
	"chatavatars/internal/pkg/logx"
	"chatavatars/internal/pkg/randx"
	"chatavatars/internal/telemetry"
)

// Scheduler orchestrates avatar state transitions and the autonomous behavior loops.
//
// Every public operation and every timer callback runs to completion under mu, so cancelling
// a pending timer and arming its replacement is atomic for observers.
type Scheduler struct {
	// registry owns the presence records.
	registry *presence.Registry

	// clock arms revert and autonomous timers.
	clock clockx.Clock

	// rng drives the autonomous loop.
	rng randx.Source

	// autoLoops counts records with AutoActive set.
	autoLoops int

	// mu serializes all state changes.
	mu sync.Mutex

	logger zerolog.Logger
}

// NewScheduler constructs a Scheduler over registry.
func NewScheduler(registry *presence.Registry, clock clockx.Clock, rng randx.Source) *Scheduler {
	return &Scheduler{
		registry: registry,
		clock:    clock,
		rng:      rng,
		logger:   logx.Logger().With().Str("component", "Scheduler").Logger(),
	}
}

// OnMessage reacts to a chat message from username: the avatar is created on first sighting
// and walks for DefaultWalkDuration. A message during a walk restarts the countdown.
func (s *Scheduler) OnMessage(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	telemetry.RecordChatMessage()

	rec := s.ensureLocked(username)
	s.walkLocked(rec, DefaultWalkDuration)
}

// SetDirection changes the facing of username without changing its state.
// It returns false if the user is unknown.
func (s *Scheduler) SetDirection(username string, d presence.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry.Get(username)
	if !ok {
		return false
	}
	s.setDirectionLocked(rec, d)
	return true
}

// SetAllDirections changes the facing of every known user.
func (s *Scheduler) SetAllDirections(d presence.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eachLocked(func(rec *presence.Record) {
		s.setDirectionLocked(rec, d)
	})
}

// SetState forces username into state. Any pending revert is cancelled and none is armed,
// so a forced walk lasts until the next transition. Unlike OnMessage and StartWalking this is
// deliberate: SetState(Walking) is the way to hold an avatar walking indefinitely.
// It returns false if the user is unknown.
func (s *Scheduler) SetState(username string, state State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry.Get(username)
	if !ok {
		return false
	}
	s.setStateLocked(rec, state)
	return true
}

// SetAllStates forces every known user into state.
func (s *Scheduler) SetAllStates(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eachLocked(func(rec *presence.Record) {
		s.setStateLocked(rec, state)
	})
}

// StartWalking makes username walk for d. A zero or negative d reverts to idle on the next
// timer tick; callers without a duration pass DefaultWalkDuration.
// It returns false if the user is unknown.
func (s *Scheduler) StartWalking(username string, d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry.Get(username)
	if !ok {
		return false
	}
	s.walkLocked(rec, max(d, 0))
	return true
}

// StopWalking returns username to idle and cancels its pending revert.
// It returns false if the user is unknown.
func (s *Scheduler) StopWalking(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry.Get(username)
	if !ok {
		return false
	}
	s.idleLocked(rec)
	return true
}

// View returns a copy of the presence state of username.
func (s *Scheduler) View(username string) (AvatarView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry.Get(username)
	if !ok {
		return AvatarView{}, false
	}
	return viewOf(rec), true
}

// Snapshot returns a copy of every presence record, ordered by username.
func (s *Scheduler) Snapshot() []AvatarView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]AvatarView, 0, s.registry.Len())
	s.eachLocked(func(rec *presence.Record) {
		views = append(views, viewOf(rec))
	})
	return views
}

// ensureLocked returns the record for username, creating it in the idle state if needed.
func (s *Scheduler) ensureLocked(username string) *presence.Record {
	rec, created := s.registry.Ensure(username)
	if created {
		s.applyAnimationLocked(rec)
		telemetry.SetAvatars(s.registry.Len())
	}
	return rec
}

// eachLocked calls fn for every known record in username order.
func (s *Scheduler) eachLocked(fn func(rec *presence.Record)) {
	for _, name := range s.registry.Usernames() {
		if rec, ok := s.registry.Get(name); ok {
			fn(rec)
		}
	}
}

// registeredLocked reports whether rec is still the record the registry holds for its user.
// Timer callbacks use it to drop actions aimed at a user that is no longer present.
func (s *Scheduler) registeredLocked(rec *presence.Record) bool {
	current, ok := s.registry.Get(rec.Username)
	return ok && current == rec
}

func (s *Scheduler) applyAnimationLocked(rec *presence.Record) {
	rec.Animation = AnimationName(rec.Walking, rec.Direction)
	rec.Handle.SetAnimation(rec.Animation)
}

func (s *Scheduler) setDirectionLocked(rec *presence.Record, d presence.Direction) {
	rec.Direction = presence.NormalizeDirection(d)
	s.applyAnimationLocked(rec)
}

func (s *Scheduler) setWalkingLocked(rec *presence.Record, walking bool) {
	rec.Walking = walking
	rec.Handle.SetWalking(walking)
	s.applyAnimationLocked(rec)

	telemetry.RecordTransition(string(stateOf(walking)))
	s.logger.Debug().
		Str("username", rec.Username).
		Str("state", string(stateOf(walking))).
		Str("animation", rec.Animation).
		Msg("Avatar state applied.")
}

func (s *Scheduler) setStateLocked(rec *presence.Record, state State) {
	rec.Revert.Cancel()
	s.setWalkingLocked(rec, state == Walking)
}

// walkLocked switches rec to walking and (re)arms its revert timer for d.
func (s *Scheduler) walkLocked(rec *presence.Record, d time.Duration) {
	s.setWalkingLocked(rec, true)
	rec.Revert.Arm(s.clock, d, func(seq uint64) {
		s.fireRevert(rec, seq)
	})
}

func (s *Scheduler) idleLocked(rec *presence.Record) {
	rec.Revert.Cancel()
	s.setWalkingLocked(rec, false)
}

func (s *Scheduler) fireRevert(rec *presence.Record, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registeredLocked(rec) || !rec.Revert.Current(seq) {
		return
	}
	rec.Revert.Release()
	s.setWalkingLocked(rec, false)
}
