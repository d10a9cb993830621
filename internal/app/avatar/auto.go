package avatar

import (
	"time"

	"chatavatars/internal/app/presence"
	"chatavatars/internal/pkg/randx"
	"chatavatars/internal/telemetry"
)

// StartAuto starts the autonomous behavior loop of username, replacing any loop already running.
// After a random wait in [MinInterval, MaxInterval] the avatar turns to a random facing and then
// walks for a random duration in [MinWalk, MaxWalk] with probability WalkChance, or idles;
// the loop then reschedules itself until StopAuto.
// It returns false if the user is unknown.
func (s *Scheduler) StartAuto(username string, opts AutoOptions) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry.Get(username)
	if !ok {
		return false
	}
	s.startAutoLocked(rec, opts)
	return true
}

// StopAuto cancels the autonomous loop of username. It is safe to call when no loop runs.
// It returns false if the user is unknown.
func (s *Scheduler) StopAuto(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.registry.Get(username)
	if !ok {
		return false
	}
	s.stopAutoLocked(rec)
	return true
}

// StartAllAuto starts (or restarts) the autonomous loop of every known user.
func (s *Scheduler) StartAllAuto(opts AutoOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eachLocked(func(rec *presence.Record) {
		s.startAutoLocked(rec, opts)
	})
}

// StopAllAuto cancels the autonomous loop of every known user.
func (s *Scheduler) StopAllAuto() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eachLocked(s.stopAutoLocked)
}

func (s *Scheduler) startAutoLocked(rec *presence.Record, opts AutoOptions) {
	s.stopAutoLocked(rec)

	rec.AutoActive = true
	s.autoLoops++
	telemetry.SetAutoLoops(s.autoLoops)

	s.scheduleAutoLocked(rec, opts.normalized())

	s.logger.Debug().Str("username", rec.Username).Msg("Autonomous loop started.")
}

func (s *Scheduler) stopAutoLocked(rec *presence.Record) {
	rec.Auto.Cancel()
	if !rec.AutoActive {
		return
	}

	rec.AutoActive = false
	s.autoLoops--
	telemetry.SetAutoLoops(s.autoLoops)

	s.logger.Debug().Str("username", rec.Username).Msg("Autonomous loop stopped.")
}

func (s *Scheduler) scheduleAutoLocked(rec *presence.Record, opts AutoOptions) {
	wait := randx.Between(s.rng, opts.MinInterval.Milliseconds(), opts.MaxInterval.Milliseconds())
	rec.Auto.Arm(s.clock, time.Duration(wait)*time.Millisecond, func(seq uint64) {
		s.fireAuto(rec, opts, seq)
	})
}

// fireAuto runs one cycle of the autonomous loop and reschedules the next one.
func (s *Scheduler) fireAuto(rec *presence.Record, opts AutoOptions, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registeredLocked(rec) {
		return
	}
	if !rec.AutoActive || !rec.Auto.Current(seq) {
		return
	}
	rec.Auto.Release()

	s.setDirectionLocked(rec, presence.Directions[s.rng.IntN(len(presence.Directions))])

	if randx.Chance(s.rng, opts.WalkChance) {
		walk := randx.Between(s.rng, opts.MinWalk.Milliseconds(), opts.MaxWalk.Milliseconds())
		s.walkLocked(rec, time.Duration(walk)*time.Millisecond)
	} else {
		s.idleLocked(rec)
	}

	s.scheduleAutoLocked(rec, opts)
}
