package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	first := ChatMessages
	Init()
	assert.Same(t, first, ChatMessages)
}

func TestRecorders(t *testing.T) {
	Init()

	before := testutil.ToFloat64(ChatMessages)
	RecordChatMessage()
	assert.Equal(t, before+1, testutil.ToFloat64(ChatMessages))

	walking := testutil.ToFloat64(Transitions.WithLabelValues("walking"))
	RecordTransition("walking")
	assert.Equal(t, walking+1, testutil.ToFloat64(Transitions.WithLabelValues("walking")))

	SetAvatars(7)
	assert.Equal(t, float64(7), testutil.ToFloat64(Avatars))

	SetAutoLoops(2)
	assert.Equal(t, float64(2), testutil.ToFloat64(AutoLoops))

	SetFeedConnected(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(FeedConnected))
	SetFeedConnected(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(FeedConnected))
}
