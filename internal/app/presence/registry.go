package presence

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"chatavatars/internal/pkg/logx"
)

// Registry maps usernames to their presence records.
// Records are created on first sighting and are never removed.
type Registry struct {
	// records stores every known user, keyed by username.
	records map[string]*Record

	// renderer creates the visual handle of each new record.
	renderer Renderer

	// mu protects the records map.
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry that creates handles through renderer.
func NewRegistry(renderer Renderer) *Registry {
	return &Registry{
		records:  make(map[string]*Record),
		renderer: renderer,
		logger:   logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Ensure returns the record for username, creating it if the user has not been seen yet.
// The second result reports whether the record was created by this call.
func (r *Registry) Ensure(username string) (*Record, bool) {
	r.mu.Lock()

	if rec, ok := r.records[username]; ok {
		r.mu.Unlock()
		return rec, false
	}

	rec := &Record{
		Username:  username,
		Handle:    r.renderer.CreateHandle(username),
		Direction: DefaultDirection,
	}
	r.records[username] = rec
	total := len(r.records)

	r.mu.Unlock()

	r.logger.Info().Str("username", username).Int("total_avatars", total).Msg("Presence record created.")
	return rec, true
}

// Get looks up the record for username.
func (r *Registry) Get(username string) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[username]
	return rec, ok
}

// Usernames returns every known username in ascending order.
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.records))
	for name := range r.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of known users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
