// Package telemetry provides the Prometheus metrics of the avatar overlay.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	ChatMessages prometheus.Counter
	Transitions  *prometheus.CounterVec

	// Gauges
	Avatars        prometheus.Gauge
	AutoLoops      prometheus.Gauge
	OverlayClients prometheus.Gauge
	FeedConnected  prometheus.Gauge
	BroadcastDrops prometheus.Counter
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		ChatMessages = promauto.NewCounter(prometheus.CounterOpts{Name: "avatar_chat_messages_total", Help: "Chat messages that reached the scheduler"})
		Transitions = promauto.NewCounterVec(prometheus.CounterOpts{Name: "avatar_state_transitions_total", Help: "Avatar state transitions by target state"}, []string{"state"})
		Avatars = promauto.NewGauge(prometheus.GaugeOpts{Name: "avatar_records", Help: "Number of known avatars"})
		AutoLoops = promauto.NewGauge(prometheus.GaugeOpts{Name: "avatar_auto_loops", Help: "Avatars with an active autonomous loop"})
		OverlayClients = promauto.NewGauge(prometheus.GaugeOpts{Name: "avatar_overlay_clients", Help: "Connected overlay WebSocket clients"})
		FeedConnected = promauto.NewGauge(prometheus.GaugeOpts{Name: "avatar_feed_connected", Help: "Chat feed connected=1 disconnected=0"})
		BroadcastDrops = promauto.NewCounter(prometheus.CounterOpts{Name: "avatar_overlay_broadcast_drops_total", Help: "Overlay messages dropped because a queue was full"})
	})
}

// RecordChatMessage counts one inbound chat message.
func RecordChatMessage() {
	if ChatMessages != nil {
		ChatMessages.Inc()
	}
}

// RecordTransition counts a transition into state.
func RecordTransition(state string) {
	if Transitions != nil {
		Transitions.WithLabelValues(state).Inc()
	}
}

// SetAvatars records the number of known avatars.
func SetAvatars(n int) {
	if Avatars != nil {
		Avatars.Set(float64(n))
	}
}

// SetAutoLoops records the number of active autonomous loops.
func SetAutoLoops(n int) {
	if AutoLoops != nil {
		AutoLoops.Set(float64(n))
	}
}

// SetOverlayClients records the number of connected overlay clients.
func SetOverlayClients(n int) {
	if OverlayClients != nil {
		OverlayClients.Set(float64(n))
	}
}

// SetFeedConnected sets the feed gauge to 1 if connected else 0.
func SetFeedConnected(connected bool) {
	if FeedConnected == nil {
		return
	}
	if connected {
		FeedConnected.Set(1)
	} else {
		FeedConnected.Set(0)
	}
}

// RecordBroadcastDrop counts one dropped overlay message.
func RecordBroadcastDrop() {
	if BroadcastDrops != nil {
		BroadcastDrops.Inc()
	}
}
