/*
Package overlay pushes avatar state to the browser-source overlay pages over WebSocket.

This file defines the Hub, the rendering side of the presence registry. It creates the visual
handle of every avatar, tracks the connected overlay pages, and fans every handle mutation out
to all of them.
*/
package overlay

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"chatavatars/internal/app/presence"
	"chatavatars/internal/pkg/logx"
	"chatavatars/internal/pkg/randx"
	"chatavatars/internal/telemetry"
)

const broadcastChannelBuffer = 1024

// Hub struct is the central fan-out point between avatar handles and overlay connections.
type Hub struct {
	// clients is the set of connected overlay pages. Only the Run loop writes it.
	clients map[*Client]struct{}

	// handles maps a username to its visual handle.
	handles map[string]*Handle

	// a buffered channel of messages to be sent to every overlay page.
	broadcast chan Message

	// a channel for overlay pages that finished the WebSocket handshake.
	register chan *Client

	// a channel for overlay pages whose connection closed.
	unregister chan *Client

	// closed by Stop to end the Run loop.
	stopChan chan struct{}

	// closed when the Run loop has returned.
	done chan struct{}

	stopOnce sync.Once

	// rng places new avatars horizontally.
	rng randx.Source

	// mu protects clients and handles.
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a Hub. Call Run to start delivering messages.
func NewHub(rng randx.Source) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		handles:    make(map[string]*Handle),
		broadcast:  make(chan Message, broadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
		rng:        rng,
		logger:     logx.Component("OverlayHub"),
	}
}

// CreateHandle creates the visual handle for username at a random horizontal position
// and announces it to the overlay pages.
func (h *Hub) CreateHandle(username string) presence.Handle {
	handle := &Handle{
		hub: h,
		state: AvatarState{
			ID:       randx.HandleID(),
			Username: username,
			X:        h.rng.Float64(),
		},
	}

	h.mu.Lock()
	h.handles[username] = handle
	h.mu.Unlock()

	h.logger.Debug().
		Str("username", username).
		Str("handle_id", handle.state.ID).
		Msg("Avatar handle created.")

	h.publish(NewMessage(TypeAvatarCreated, handle.State()))
	return handle
}

// Avatars returns the state of every handle, ordered by username.
func (h *Hub) Avatars() []AvatarState {
	h.mu.RLock()
	handles := make([]*Handle, 0, len(h.handles))
	for _, handle := range h.handles {
		handles = append(handles, handle)
	}
	h.mu.RUnlock()

	avatars := make([]AvatarState, 0, len(handles))
	for _, handle := range handles {
		avatars = append(avatars, handle.State())
	}
	sort.Slice(avatars, func(i, j int) bool {
		return avatars[i].Username < avatars[j].Username
	})
	return avatars
}

// ClientCount returns the number of connected overlay pages.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// publish queues msg for every overlay page. It never blocks: callers hold the scheduler lock,
// so a full queue drops the message.
func (h *Hub) publish(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		telemetry.RecordBroadcastDrop()
		h.logger.Warn().Str("msg_type", string(msg.Type)).Msg("Broadcast channel full. Message dropped.")
	}
}

// RegisterClient hands a connected overlay page to the Run loop.
// If the hub has stopped, the client's send queue is closed so its WritePump ends the connection.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// unregisterClient hands a disconnected overlay page to the Run loop.
func (h *Hub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop ends the Run loop and waits for it to return. Connected pages are sent a close frame.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.logger.Info().Msg("Received stop signal. Stopping overlay hub.")
		close(h.stopChan)
	})
	<-h.done
}

// Run starts the main event loop for the Hub.
// It handles overlay registration, deregistration, and message broadcasting until Stop is called.
func (h *Hub) Run() {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.send)
		}
		h.mu.Unlock()

		telemetry.SetOverlayClients(0)
		close(h.done)
		h.logger.Info().Msg("Overlay hub Run loop finished.")
	}()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client, "Overlay disconnected.")

		case message := <-h.broadcast:
			h.deliver(message)

		case <-h.stopChan:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	initMsg, err := json.Marshal(NewMessage(TypeInitData, InitDataPayload{Avatars: h.Avatars()}))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build INIT_DATA message.")
		close(client.send)
		return
	}

	// The send queue is fresh, so the snapshot always fits.
	client.send <- initMsg

	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	telemetry.SetOverlayClients(total)
	client.logger.Info().Int("total_overlays", total).Msg("Overlay connected.")
}

func (h *Hub) removeClient(client *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	telemetry.SetOverlayClients(total)
	client.logger.Info().Int("total_overlays", total).Msg(reason)
}

func (h *Hub) deliver(message Message) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Str("message_id", message.ID).
			Err(err).
			Msg("Error marshaling message for broadcast.")
		return
	}

	h.mu.RLock()
	var slow []*Client
	for client := range h.clients {
		select {
		case client.send <- messageBytes:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.removeClient(client, "Overlay send queue full. Disconnecting slow overlay.")
	}
}
