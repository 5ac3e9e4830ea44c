// Package registry manages the player roster: registration, renames and
// removal, with the shared name validation rules.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mboer/treasurehunt/internal/dependencies/clock"
	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/profanity"
	"github.com/mboer/treasurehunt/internal/storage"
)

// MaxNameLength bounds player names to something that fits the leaderboard
const MaxNameLength = 40

// Service handles player lifecycle operations
type Service struct {
	store  storage.PlayerStore
	filter *profanity.Filter
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new registry service
func New(store storage.PlayerStore, filter *profanity.Filter, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		filter: filter,
		clock:  clk,
		logger: logger,
	}
}

// Register creates a new player with a fresh identifier.
// The name must be non-empty, clean and unused (exact match).
func (s *Service) Register(ctx context.Context, name string) (*model.Player, error) {
	clean, err := s.validateName(ctx, name, "")
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:        model.PlayerID(uuid.NewString()),
		Name:      clean,
		CreatedAt: s.clock.Now(),
	}

	if err := s.store.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("player_name", player.Name),
	)
	return player, nil
}

// Get looks up a player by id
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.store.GetPlayer(ctx, id)
}

// List returns all players, oldest first
func (s *Service) List(ctx context.Context) ([]*model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// Rename changes a player's name, applying the same validation as
// registration. Renaming a player to their current name is a no-op.
func (s *Service) Rename(ctx context.Context, id model.PlayerID, name string) (*model.Player, error) {
	clean, err := s.validateName(ctx, name, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.RenamePlayer(ctx, id, clean); err != nil {
		return nil, err
	}

	s.logger.Info("player renamed",
		slog.String("player_id", string(id)),
		slog.String("player_name", clean),
	)
	return s.store.GetPlayer(ctx, id)
}

// Remove deletes a single player
func (s *Service) Remove(ctx context.Context, id model.PlayerID) error {
	if err := s.store.DeletePlayer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("player removed", slog.String("player_id", string(id)))
	return nil
}

// validateName trims and checks a submitted name. self is the player being
// renamed, or empty for registration; a player may keep their own name.
func (s *Service) validateName(ctx context.Context, name string, self model.PlayerID) (string, error) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return "", model.ErrNameEmpty
	}
	if len(clean) > MaxNameLength {
		clean = clean[:MaxNameLength]
	}
	if s.filter.IsProfane(clean) {
		return "", model.ErrNameProfane
	}

	existing, err := s.store.GetPlayerByName(ctx, clean)
	if err == nil {
		if self == "" || existing.ID != self {
			return "", model.ErrNameTaken
		}
		return clean, nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return "", err
	}
	return clean, nil
}
