/*
Package avatar contains the animation scheduler that drives the on-screen chat avatars.

This file defines the two avatar states, the animation identifier derived from a state and a
facing, and the read-only view of an avatar returned by Snapshot.
*/
package avatar

import "chatavatars/internal/app/presence"

// State is the animation state of an avatar.
type State string

const (
	Idle    State = "idle"
	Walking State = "walking"
)

// ParseState converts the wire form of a state. Only "idle" and "walking" are accepted.
func ParseState(s string) (State, bool) {
	switch State(s) {
	case Idle, Walking:
		return State(s), true
	}
	return "", false
}

func stateOf(walking bool) State {
	if walking {
		return Walking
	}
	return Idle
}

// AnimationName returns the animation identifier for a state flag and facing,
// e.g. "walk-animation-right". Invalid facings fall back to left.
func AnimationName(walking bool, d presence.Direction) string {
	prefix := "idle"
	if walking {
		prefix = "walk"
	}
	return prefix + "-animation-" + string(presence.NormalizeDirection(d))
}

// AvatarView is a point-in-time copy of one presence record.
type AvatarView struct {
	Username      string             `json:"username"`
	Direction     presence.Direction `json:"direction"`
	State         State              `json:"state"`
	Animation     string             `json:"animation"`
	AutoActive    bool               `json:"autoActive"`
	RevertPending bool               `json:"revertPending"`
}

func viewOf(rec *presence.Record) AvatarView {
	return AvatarView{
		Username:      rec.Username,
		Direction:     rec.Direction,
		State:         stateOf(rec.Walking),
		Animation:     rec.Animation,
		AutoActive:    rec.AutoActive,
		RevertPending: rec.Revert.Pending(),
	}
}
