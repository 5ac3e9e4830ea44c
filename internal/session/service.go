package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mboer/treasurehunt/internal/dependencies/clock"
	"github.com/mboer/treasurehunt/internal/model"
)

// Config holds configuration for the session service
type Config struct {
	TTL time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		TTL: 7 * 24 * time.Hour,
	}
}

// Service manages session lifecycle on top of a Store
type Service struct {
	store  Store
	clock  clock.Clock
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates a new session service
func NewService(store Store, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	return &Service{
		store:  store,
		clock:  clk,
		ttl:    cfg.TTL,
		logger: logger,
	}
}

// Create starts a session for a registered player
func (s *Service) Create(ctx context.Context, playerID model.PlayerID, playerName string) (*Session, error) {
	return s.create(ctx, playerID, playerName, false)
}

// Get returns the session for a token, enforcing expiry
func (s *Service) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	sess, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.clock.Now().After(sess.ExpiresAt) {
		if err := s.store.Delete(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", slog.String("error", err.Error()))
		}
		return nil, ErrNotFound
	}

	return sess, nil
}

// GrantAdmin marks the session for the given token as admin, creating a
// fresh anonymous session when the token is empty or stale. The admin
// password check itself belongs to the admin service; this only records
// the outcome.
func (s *Service) GrantAdmin(ctx context.Context, token string) (*Session, error) {
	sess, err := s.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return s.create(ctx, "", "", true)
	}

	sess.Admin = true
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save admin session: %w", err)
	}
	return sess, nil
}

// Invalidate removes a session
func (s *Service) Invalidate(ctx context.Context, token string) error {
	return s.store.Delete(ctx, token)
}

func (s *Service) create(ctx context.Context, playerID model.PlayerID, playerName string, admin bool) (*Session, error) {
	now := s.clock.Now()

	sess := &Session{
		Token:      generateToken(),
		PlayerID:   playerID,
		PlayerName: playerName,
		Admin:      admin,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// generateToken generates a random session token
func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
