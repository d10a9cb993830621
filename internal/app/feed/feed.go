/*
Package feed subscribes to a Twitch channel's chat and forwards every chatter to the avatar scheduler.

The IRC connection is handled by go-twitch-irc. Each private message becomes an Event, the chatter's
name is extracted from its tags, and the scheduler is told that the chatter spoke.
*/
package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"
	"github.com/rs/zerolog"

	"chatavatars/internal/pkg/logx"
	"chatavatars/internal/telemetry"
)

// DefaultRetryDelay is the pause between a failed connection and the next attempt.
const DefaultRetryDelay = 5 * time.Second

// disconnectRetryInterval paces Disconnect calls on shutdown. The client rejects a Disconnect
// while it is still dialing, so the call is repeated until Connect returns.
const disconnectRetryInterval = 100 * time.Millisecond

// Event is one chat message as seen by the overlay.
type Event struct {
	Channel string
	Tags    map[string]string
	Text    string

	// Self is true for messages sent by the account the feed is logged in as.
	Self bool
}

// Username returns the name to show for the sender of e: the display-name tag,
// falling back to the username tag. ok is false when neither is present.
func Username(e Event) (name string, ok bool) {
	if name = e.Tags["display-name"]; name != "" {
		return name, true
	}
	if name = e.Tags["username"]; name != "" {
		return name, true
	}
	return "", false
}

// MessageSink receives the chatters of the feed.
type MessageSink interface {
	OnMessage(username string)
}

// ircClient is the part of *twitch.Client the feed uses.
type ircClient interface {
	OnPrivateMessage(callback func(message twitch.PrivateMessage))
	OnConnect(callback func())
	Join(channels ...string)
	Connect() error
	Disconnect() error
}

// Options configures the chat connection.
type Options struct {
	// Channel is the Twitch channel to join, without the leading '#'.
	Channel string

	// BotUsername and OAuthToken log the feed in. Without a token it joins anonymously.
	BotUsername string
	OAuthToken  string

	// RetryDelay defaults to DefaultRetryDelay.
	RetryDelay time.Duration
}

// Feed struct relays one Twitch channel's chat to a MessageSink.
type Feed struct {
	client     ircClient
	sink       MessageSink
	channel    string
	self       string
	retryDelay time.Duration
	logger     zerolog.Logger
}

// New creates a Feed for opts.Channel delivering chatters to sink.
func New(opts Options, sink MessageSink) *Feed {
	var client *twitch.Client
	if opts.OAuthToken == "" {
		client = twitch.NewAnonymousClient()
	} else {
		client = twitch.NewClient(opts.BotUsername, opts.OAuthToken)
	}
	return newFeed(client, opts, sink)
}

func newFeed(client ircClient, opts Options, sink MessageSink) *Feed {
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	f := &Feed{
		client:     client,
		sink:       sink,
		channel:    strings.ToLower(strings.TrimPrefix(opts.Channel, "#")),
		self:       opts.BotUsername,
		retryDelay: retryDelay,
		logger: logx.Logger().With().
			Str("component", "ChatFeed").
			Str("channel", opts.Channel).
			Bool("anonymous", opts.OAuthToken == "").
			Logger(),
	}

	client.OnPrivateMessage(f.handlePrivateMessage)
	client.OnConnect(func() {
		telemetry.SetFeedConnected(true)
		f.logger.Info().Msg("Connected to Twitch chat.")
	})
	client.Join(f.channel)

	return f
}

// Run connects to chat and keeps reconnecting after failures until ctx is done.
func (f *Feed) Run(ctx context.Context) {
	stop := make(chan struct{})
	defer close(stop)

	go f.disconnectOnDone(ctx, stop)

	for ctx.Err() == nil {
		err := f.client.Connect()
		telemetry.SetFeedConnected(false)

		if ctx.Err() != nil {
			break
		}
		if err != nil && !errors.Is(err, twitch.ErrClientDisconnected) {
			f.logger.Error().Err(err).Dur("retry_in", f.retryDelay).Msg("Twitch chat connection failed.")
		} else {
			f.logger.Warn().Dur("retry_in", f.retryDelay).Msg("Twitch chat connection closed.")
		}

		select {
		case <-ctx.Done():
		case <-time.After(f.retryDelay):
		}
	}

	f.logger.Info().Msg("Chat feed stopped.")
}

// disconnectOnDone closes the connection once ctx is done, retrying until the client accepts
// the request or Run has returned.
func (f *Feed) disconnectOnDone(ctx context.Context, stop <-chan struct{}) {
	select {
	case <-ctx.Done():
	case <-stop:
		return
	}

	ticker := time.NewTicker(disconnectRetryInterval)
	defer ticker.Stop()

	for {
		err := f.client.Disconnect()
		if err == nil {
			return
		}
		f.logger.Debug().Err(err).Msg("Disconnect on shutdown rejected, retrying.")

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Owner returns the login name of the channel owner, as used for the auto-started avatar.
func (f *Feed) Owner() string {
	return f.channel
}

func (f *Feed) handlePrivateMessage(msg twitch.PrivateMessage) {
	tags := make(map[string]string, len(msg.Tags)+1)
	for k, v := range msg.Tags {
		tags[k] = v
	}
	tags["username"] = msg.User.Name

	f.Handle(Event{
		Channel: msg.Channel,
		Tags:    tags,
		Text:    msg.Message,
		Self:    f.self != "" && strings.EqualFold(msg.User.Name, f.self),
	})
}

// Handle forwards the sender of e to the sink. Own messages and messages without a sender are ignored.
// The channel owner is always reported under the login name returned by Owner.
func (f *Feed) Handle(e Event) {
	if e.Self {
		return
	}

	username, ok := Username(e)
	if !ok {
		f.logger.Debug().Msg("Chat message without a sender ignored.")
		return
	}
	// The owner's avatar is keyed by login so it matches the auto-started one.
	if f.isOwner(e, username) {
		username = f.channel
	}

	f.sink.OnMessage(username)
}

func (f *Feed) isOwner(e Event, username string) bool {
	if f.channel == "" {
		return false
	}
	return strings.EqualFold(e.Tags["username"], f.channel) || strings.EqualFold(username, f.channel)
}
