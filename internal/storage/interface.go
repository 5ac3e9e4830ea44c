package storage

import (
	"context"
	"time"

	"github.com/mboer/treasurehunt/internal/model"
)

// PlayerStore defines the interface for player persistence.
//
// The progression methods (StartHunt, AdvancePlayer, FinishHunt) are
// compare-and-set transitions: each one is atomic, guarded on the state the
// caller read, and fails with model.ErrScanConflict (or
// model.ErrAlreadyStarted) when that state has moved underneath it. Two
// near-simultaneous scans of the same tag therefore result in exactly one
// state advance.
type PlayerStore interface {
	// CreatePlayer inserts a new player row.
	// Returns model.ErrNameTaken if the name is already in use.
	CreatePlayer(ctx context.Context, player *model.Player) error

	// GetPlayer looks up a player by id.
	// Returns model.ErrPlayerNotFound if no such row exists.
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)

	// GetPlayerByName looks up a player by exact name match
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)

	// ListPlayers returns all players, oldest registration first
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// RenamePlayer changes a player's name, subject to uniqueness.
	// Returns model.ErrNameTaken if another player holds the name.
	RenamePlayer(ctx context.Context, id model.PlayerID, name string) error

	// DeletePlayer removes a single player row
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// StartHunt records the start of a player's hunt: start time, last
	// scan time and current tag are set together, guarded on the hunt not
	// having started. Returns model.ErrAlreadyStarted if it has.
	StartHunt(ctx context.Context, id model.PlayerID, firstTag string, now time.Time) error

	// AdvancePlayer moves a player from one expected tag to the next,
	// guarded on the current tag still being fromTag and the hunt not
	// being finished. Returns model.ErrScanConflict on a stale read.
	AdvancePlayer(ctx context.Context, id model.PlayerID, fromTag, toTag string, now time.Time) error

	// FinishHunt completes a player's hunt: the current tag moves to the
	// FINISHED sentinel and the end time is recorded, guarded like
	// AdvancePlayer. The returned duration and rank are computed within
	// the same transaction as the update, so the rank count cannot race
	// another finisher.
	FinishHunt(ctx context.Context, id model.PlayerID, fromTag string, now time.Time) (*model.FinishResult, error)

	// ListFinished returns finished players ordered by ascending
	// duration, at most limit rows. End time breaks duration ties.
	ListFinished(ctx context.Context, limit int) ([]*model.Player, error)

	// Reset wipes every player row and recreates an empty schema
	Reset(ctx context.Context) error

	// Close releases any underlying resources
	Close() error
}
