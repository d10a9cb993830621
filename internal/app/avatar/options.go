package avatar

import "time"

// DefaultWalkDuration is how long an avatar walks after a chat message before reverting to idle.
const DefaultWalkDuration = 5 * time.Second

// MinAutoInterval is the shortest wait between two autonomous actions. Shorter intervals are raised to it.
const MinAutoInterval = 10 * time.Millisecond

// AutoOptions configures the autonomous behavior loop of one avatar.
type AutoOptions struct {
	// MinInterval and MaxInterval bound the random wait between two autonomous actions.
	MinInterval time.Duration
	MaxInterval time.Duration

	// WalkChance is the probability that an action walks instead of idling.
	WalkChance float64

	// MinWalk and MaxWalk bound the random duration of an autonomous walk.
	MinWalk time.Duration
	MaxWalk time.Duration
}

// DefaultAutoOptions returns the options used when a caller supplies none.
func DefaultAutoOptions() AutoOptions {
	return AutoOptions{
		MinInterval: 2000 * time.Millisecond,
		MaxInterval: 8000 * time.Millisecond,
		WalkChance:  0.5,
		MinWalk:     1000 * time.Millisecond,
		MaxWalk:     5000 * time.Millisecond,
	}
}

// normalized clamps the options into a usable shape. Intervals are raised to MinAutoInterval,
// negative walk durations become zero, an inverted range collapses to its lower bound,
// and WalkChance is clamped to [0, 1].
func (o AutoOptions) normalized() AutoOptions {
	o.MinInterval = max(o.MinInterval, MinAutoInterval)
	o.MaxInterval = max(o.MaxInterval, o.MinInterval)
	o.MinWalk = max(o.MinWalk, 0)
	o.MaxWalk = max(o.MaxWalk, o.MinWalk)
	o.WalkChance = min(max(o.WalkChance, 0), 1)
	return o
}
