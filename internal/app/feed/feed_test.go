package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingSink struct {
	mu    sync.Mutex
	names []string
}

func (s *recordingSink) OnMessage(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, username)
}

func (s *recordingSink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// fakeIRC fails the first len(failures) connects, then stays connected until Disconnect.
type fakeIRC struct {
	mu        sync.Mutex
	onMessage func(twitch.PrivateMessage)
	onConnect func()
	joined    []string
	failures  []error
	connects  int
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeIRC(failures ...error) *fakeIRC {
	return &fakeIRC{failures: failures, closed: make(chan struct{})}
}

func (c *fakeIRC) OnPrivateMessage(cb func(twitch.PrivateMessage)) { c.onMessage = cb }
func (c *fakeIRC) OnConnect(cb func())                             { c.onConnect = cb }
func (c *fakeIRC) Join(channels ...string)                         { c.joined = append(c.joined, channels...) }

func (c *fakeIRC) Connect() error {
	c.mu.Lock()
	n := c.connects
	c.connects++
	c.mu.Unlock()

	if n < len(c.failures) {
		return c.failures[n]
	}
	c.onConnect()
	<-c.closed
	return twitch.ErrClientDisconnected
}

func (c *fakeIRC) Disconnect() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeIRC) Connects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}

// dialingIRC takes handshake to connect and, like the real client, rejects Disconnect
// until the connection is active.
type dialingIRC struct {
	mu        sync.Mutex
	onConnect func()
	handshake time.Duration
	dialing   chan struct{}
	active    bool
	rejected  int
	closed    chan struct{}
}

func newDialingIRC(handshake time.Duration) *dialingIRC {
	return &dialingIRC{handshake: handshake, dialing: make(chan struct{}), closed: make(chan struct{})}
}

func (c *dialingIRC) OnPrivateMessage(func(twitch.PrivateMessage)) {}
func (c *dialingIRC) OnConnect(cb func())                         { c.onConnect = cb }
func (c *dialingIRC) Join(...string)                               {}

func (c *dialingIRC) Connect() error {
	close(c.dialing)
	time.Sleep(c.handshake)

	c.mu.Lock()
	c.active = true
	c.mu.Unlock()

	c.onConnect()
	<-c.closed
	return twitch.ErrClientDisconnected
}

func (c *dialingIRC) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		c.rejected++
		return twitch.ErrConnectionIsNotOpen
	}
	c.active = false
	close(c.closed)
	return nil
}

func (c *dialingIRC) Rejected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rejected
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
		ok   bool
	}{
		{"display name wins", map[string]string{"display-name": "Alice", "username": "alice"}, "Alice", true},
		{"login fallback", map[string]string{"display-name": "", "username": "bob"}, "bob", true},
		{"no sender", map[string]string{}, "", false},
		{"nil tags", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Username(Event{Tags: tt.tags})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandle_ForwardsChatters(t *testing.T) {
	sink := &recordingSink{}
	f := newFeed(newFakeIRC(), Options{Channel: "streamer", BotUsername: "avatarbot"}, sink)

	f.Handle(Event{Tags: map[string]string{"display-name": "Alice"}})
	f.Handle(Event{Tags: map[string]string{"display-name": "AvatarBot"}, Self: true})
	f.Handle(Event{Tags: map[string]string{}})

	assert.Equal(t, []string{"Alice"}, sink.Names())
}

func TestPrivateMessage_BuildsEvent(t *testing.T) {
	sink := &recordingSink{}
	irc := newFakeIRC()
	newFeed(irc, Options{Channel: "#Streamer", BotUsername: "AvatarBot", OAuthToken: "oauth:x"}, sink)

	assert.Equal(t, []string{"streamer"}, irc.joined)

	irc.onMessage(twitch.PrivateMessage{
		User:    twitch.User{Name: "carol", DisplayName: "Carol"},
		Tags:    map[string]string{"display-name": "Carol"},
		Channel: "streamer",
		Message: "hi",
	})
	irc.onMessage(twitch.PrivateMessage{
		User:    twitch.User{Name: "dave"},
		Tags:    map[string]string{},
		Channel: "streamer",
	})
	irc.onMessage(twitch.PrivateMessage{
		User: twitch.User{Name: "avatarbot", DisplayName: "AvatarBot"},
		Tags: map[string]string{"display-name": "AvatarBot"},
	})

	assert.Equal(t, []string{"Carol", "dave"}, sink.Names())
}

func TestRun_RetriesUntilCancelled(t *testing.T) {
	irc := newFakeIRC(errors.New("dial tcp: connection refused"))
	f := newFeed(irc, Options{Channel: "streamer", RetryDelay: 10 * time.Millisecond}, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return irc.Connects() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 2, irc.Connects())
}

func TestRun_CancelDuringHandshakeStillStops(t *testing.T) {
	irc := newDialingIRC(250 * time.Millisecond)
	f := newFeed(irc, Options{Channel: "streamer", RetryDelay: time.Hour}, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.Run(ctx)
		close(done)
	}()

	<-irc.dialing
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run still blocked after cancel during handshake")
	}
	assert.Positive(t, irc.Rejected(), "Disconnect is retried after the client rejects it")
}

func TestHandle_OwnerUsesLoginName(t *testing.T) {
	sink := &recordingSink{}
	f := newFeed(newFakeIRC(), Options{Channel: "#Hejnaluk"}, sink)
	assert.Equal(t, "hejnaluk", f.Owner())

	f.Handle(Event{Tags: map[string]string{"display-name": "Hejnaluk", "username": "hejnaluk"}})
	f.Handle(Event{Tags: map[string]string{"display-name": "ヘイナ", "username": "hejnaluk"}})
	f.Handle(Event{Tags: map[string]string{"display-name": "Alice", "username": "alice"}})

	assert.Equal(t, []string{"hejnaluk", "hejnaluk", "Alice"}, sink.Names())
}

func TestRun_CancelledBeforeConnect(t *testing.T) {
	irc := newFakeIRC()
	f := newFeed(irc, Options{Channel: "streamer"}, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.Run(ctx)

	assert.Equal(t, 0, irc.Connects())
}
