// Package session holds the client-side application state: the currently
// selected style and the latest computed statistics.
//
// [State] is the live, in-process object read by the renderer. Statistic
// requests are ticketed: [State.Begin] issues a ticket before the backend
// call and [State.Complete] applies the response only if no newer response
// has been applied already, so a slow reply can never overwrite a fresher
// one.
//
// [Store] persists a [Session] (the selection) between CLI invocations or
// server restarts:
//   - [FileStore]: JSON files under ~/.config/brewtower/sessions/
//   - [MemoryStore]: in-process map for tests and ephemeral servers
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/brewtower/pkg/brew"
)

// Session is the persisted part of the application state.
type Session struct {
	ID        string      `json:"id"`
	StyleID   string      `json:"style_id,omitempty"`
	Stats     *brew.Stats `json:"stats,omitempty"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsExpired reports whether the session has passed its expiry. A zero
// expiry never expires.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Store persists sessions.
type Store interface {
	// Get returns the session, or nil, nil when it does not exist or expired.
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// DefaultTTL is how long a saved selection is remembered.
const DefaultTTL = 30 * 24 * time.Hour

// CLISessionID is the fixed session used by the command line.
const CLISessionID = "cli"

// New creates a session with a random id.
func New(styleID string, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{ID: uuid.NewString(), StyleID: styleID, CreatedAt: now}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}
