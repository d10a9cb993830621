package overlay

import "sync"

// Handle is the overlay side of one avatar. It implements presence.Handle: every mutation is
// recorded and broadcast to the connected overlay pages as TypeAvatarUpdated.
type Handle struct {
	hub *Hub

	// mu protects state. Mutations arrive from the scheduler, snapshots from the hub loop.
	mu    sync.Mutex
	state AvatarState
}

// SetWalking switches the state flag shown by the overlay.
func (h *Handle) SetWalking(walking bool) {
	h.mu.Lock()
	h.state.Walking = walking
	st := h.state
	h.mu.Unlock()

	h.hub.publish(NewMessage(TypeAvatarUpdated, st))
}

// SetAnimation sets the animation identifier played by the overlay.
func (h *Handle) SetAnimation(name string) {
	h.mu.Lock()
	h.state.Animation = name
	st := h.state
	h.mu.Unlock()

	h.hub.publish(NewMessage(TypeAvatarUpdated, st))
}

// State returns a copy of the current avatar state.
func (h *Handle) State() AvatarState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}
