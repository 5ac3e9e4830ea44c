// Package session provides server-side sessions keyed by an opaque token
// carried in a cookie. The session carries the player's identifier and
// display name plus the admin flag; everything else is always re-read from
// the player store.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/mboer/treasurehunt/internal/model"
)

// Errors
var (
	ErrNotFound = errors.New("invalid or expired session")
)

// Session is the server-side state for one browser
type Session struct {
	Token      string         `json:"token"`
	PlayerID   model.PlayerID `json:"player_id"`
	PlayerName string         `json:"player_name"`

	// Admin marks a session that has passed the admin password gate
	Admin bool `json:"admin"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines the interface for session persistence
type Store interface {
	// Save writes a session, overwriting any previous value for its token
	Save(ctx context.Context, s *Session) error

	// Get looks up a session by token.
	// Returns ErrNotFound if no such session exists.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session
	Delete(ctx context.Context, token string) error

	// Close releases any underlying resources
	Close() error
}
