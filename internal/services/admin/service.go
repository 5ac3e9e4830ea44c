// Package admin provides the password-gated control surface: inspecting the
// roster, renaming and removing players, and wiping the store.
package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/services/registry"
	"github.com/mboer/treasurehunt/internal/storage"
)

// PlayerSummary is one roster row on the admin dashboard
type PlayerSummary struct {
	ID         model.PlayerID
	Name       string
	CurrentTag string
	Started    bool
	Finished   bool
	Duration   time.Duration
}

// Service implements the admin operations
type Service struct {
	password string
	registry *registry.Service
	store    storage.PlayerStore
	logger   *slog.Logger
}

// New creates a new admin service. The password is the shared secret
// admin sessions must present; an empty password disables admin access.
func New(password string, reg *registry.Service, store storage.PlayerStore, logger *slog.Logger) *Service {
	return &Service{
		password: password,
		registry: reg,
		store:    store,
		logger:   logger,
	}
}

// Authenticate checks a submitted password against the shared secret.
// Comparison is exact-match but constant-time.
func (s *Service) Authenticate(password string) bool {
	if s.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

// ListPlayers returns the full roster with computed durations
func (s *Service) ListPlayers(ctx context.Context) ([]PlayerSummary, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerSummary, 0, len(players))
	for _, p := range players {
		sum := PlayerSummary{
			ID:         p.ID,
			Name:       p.Name,
			CurrentTag: p.CurrentTag,
			Started:    p.Started(),
			Finished:   p.Finished(),
		}
		if d, ok := p.Duration(); ok {
			sum.Duration = d
		}
		out = append(out, sum)
	}
	return out, nil
}

// RenamePlayer renames a player, subject to the registration name rules
func (s *Service) RenamePlayer(ctx context.Context, id model.PlayerID, name string) (*model.Player, error) {
	return s.registry.Rename(ctx, id, name)
}

// RemovePlayer deletes a single player
func (s *Service) RemovePlayer(ctx context.Context, id model.PlayerID) error {
	return s.registry.Remove(ctx, id)
}

// Reset wipes the entire store and recreates an empty schema
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.logger.Warn("player store reset by admin")
	return nil
}
