/*
Package presence owns the per-user presence records of the avatar overlay.

This file defines the record itself, the facing directions an avatar may have, and the rendering
capabilities (Renderer, Handle) a record needs from the overlay.
*/
package presence

import "chatavatars/internal/pkg/clockx"

// Direction is the facing of an avatar.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists every valid facing, in a fixed order.
var Directions = [...]Direction{Left, Right, Up, Down}

// DefaultDirection is the facing of a newly created avatar and the fallback for invalid input.
const DefaultDirection = Left

// NormalizeDirection returns d when it is one of the four valid facings and DefaultDirection otherwise.
func NormalizeDirection(d Direction) Direction {
	for _, valid := range Directions {
		if d == valid {
			return d
		}
	}
	return DefaultDirection
}

// Handle is the on-screen representation of a single user.
type Handle interface {
	// SetWalking switches the displayed state flag between walking and idle.
	SetWalking(walking bool)

	// SetAnimation sets the animation identifier played by the avatar.
	SetAnimation(name string)
}

// Renderer creates visual handles.
type Renderer interface {
	CreateHandle(username string) Handle
}

// Record is the presence state of one user.
// Records are owned by the Registry; their mutable fields are guarded by the caller's lock.
type Record struct {
	// Username is the registry key. It never changes.
	Username string

	// Handle is created together with the record and never replaced.
	Handle Handle

	// Direction is always one of Directions.
	Direction Direction

	// Walking is true while the avatar is in the walking state.
	Walking bool

	// Animation is the last animation identifier applied to Handle.
	Animation string

	// Revert holds the pending revert-to-idle timer.
	Revert clockx.Slot

	// Auto holds the pending autonomous-action timer.
	Auto clockx.Slot

	// AutoActive is true while the autonomous loop keeps rescheduling itself.
	AutoActive bool
}
