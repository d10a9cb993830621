/*
Package overlay pushes avatar state to the browser-source overlay pages over WebSocket.

This file defines the wire envelope sent to overlay pages and its payloads.
*/
package overlay

import (
	"time"

	"chatavatars/internal/pkg/randx"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

const (
	// TypeInitData carries every known avatar. It is the first message on a new connection.
	TypeInitData MessageType = "INIT_DATA"

	// TypeAvatarCreated announces an avatar seen for the first time.
	TypeAvatarCreated MessageType = "AVATAR_CREATED"

	// TypeAvatarUpdated carries the full state of an avatar after its state flag or animation changed.
	TypeAvatarUpdated MessageType = "AVATAR_UPDATED"
)

// Message is the envelope of every frame written to an overlay page.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// AvatarState is what an overlay page needs to draw one avatar.
type AvatarState struct {
	// ID identifies the DOM element of the avatar.
	ID string `json:"id"`

	// Username is shown in the avatar's name tag.
	Username string `json:"username"`

	// X is the horizontal start position as a fraction of the overlay width, in [0, 1).
	X float64 `json:"x"`

	Walking   bool   `json:"walking"`
	Animation string `json:"animation"`
}

// InitDataPayload is the payload of TypeInitData.
type InitDataPayload struct {
	Avatars []AvatarState `json:"avatars"`
}

// NewMessage wraps payload in an envelope with a fresh ID and a millisecond timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		ID:        randx.MessageID(),
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Payload:   payload,
	}
}
