// Package hunt implements the player progression state machine: a player
// moves from not-started through the clue chain tag by tag until the final
// tag records their completion time and rank.
package hunt

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mboer/treasurehunt/internal/clues"
	"github.com/mboer/treasurehunt/internal/dependencies/clock"
	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/storage"
)

// Outcome classifies the result of a scan
type Outcome int

const (
	// OutcomeAdvanced means the expected tag was scanned and the player
	// moved to the next one; Clue holds the revealed clue text.
	OutcomeAdvanced Outcome = iota

	// OutcomeFinished means the final tag was scanned; Duration and Rank
	// are set alongside the final clue text.
	OutcomeFinished

	// OutcomeWrongTag means a known but unexpected tag was scanned.
	// Nothing was mutated; Clue holds the currently-expected clue to
	// help the player reorient (empty if the expected tag is unknown).
	OutcomeWrongTag

	// OutcomeAlreadyFinished means the player had already completed the
	// hunt; callers should redirect to the leaderboard.
	OutcomeAlreadyFinished
)

// ScanResult is the outcome of processing one scanned tag
type ScanResult struct {
	Outcome  Outcome
	Clue     string
	Final    bool
	Duration time.Duration
	Rank     int
}

// Controller is the progression engine. The clue chain is injected at
// construction and never mutated.
type Controller struct {
	store  storage.PlayerStore
	chain  *clues.Chain
	clock  clock.Clock
	logger *slog.Logger
}

// NewController creates a new hunt controller
func NewController(store storage.PlayerStore, chain *clues.Chain, clk clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		store:  store,
		chain:  chain,
		clock:  clk,
		logger: logger,
	}
}

// Chain returns the injected clue chain
func (c *Controller) Chain() *clues.Chain {
	return c.chain
}

// Begin starts the player's timer exactly once and returns the first clue.
// Re-visits do not reset the start time; a finished player gets
// model.ErrAlreadyFinished.
func (c *Controller) Begin(ctx context.Context, id model.PlayerID) (clues.Entry, error) {
	first, _ := c.chain.Get(c.chain.FirstTag())

	player, err := c.store.GetPlayer(ctx, id)
	if err != nil {
		return clues.Entry{}, err
	}
	if player.Finished() {
		return clues.Entry{}, model.ErrAlreadyFinished
	}
	if player.Started() {
		return first, nil
	}

	err = c.store.StartHunt(ctx, id, first.Tag, c.clock.Now())
	if err != nil && !errors.Is(err, model.ErrAlreadyStarted) {
		return clues.Entry{}, err
	}

	c.logger.Info("hunt started",
		slog.String("player_id", string(id)),
		slog.String("first_tag", first.Tag),
	)
	return first, nil
}

// ExpectedClue returns the clue for the tag the player must scan next,
// for a returning, unfinished player. Before the hunt starts that is the
// first clue; a finished player gets model.ErrAlreadyFinished.
func (c *Controller) ExpectedClue(ctx context.Context, id model.PlayerID) (clues.Entry, error) {
	player, err := c.store.GetPlayer(ctx, id)
	if err != nil {
		return clues.Entry{}, err
	}
	if player.Finished() {
		return clues.Entry{}, model.ErrAlreadyFinished
	}

	expected := player.CurrentTag
	if expected == "" {
		expected = c.chain.FirstTag()
	}
	entry, ok := c.chain.Get(expected)
	if !ok {
		return clues.Entry{}, model.ErrUnknownTag
	}
	return entry, nil
}

// Scan processes one scanned tag for a player.
//
// Unknown tags are rejected without mutation regardless of state. A scan of
// the first tag by an unstarted player starts the hunt and is then
// processed against the fresh state in the same call, so re-scanning the
// first tag afterwards is an ordinary wrong scan, never a restart. Every
// state transition is a single atomic store operation; a losing racer in a
// double-submission observes the already-advanced state and is reported as
// a wrong scan.
func (c *Controller) Scan(ctx context.Context, id model.PlayerID, tag string) (*ScanResult, error) {
	scanned, known := c.chain.Get(tag)
	if !known {
		return nil, model.ErrUnknownTag
	}

	player, err := c.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	if player.Finished() {
		return &ScanResult{Outcome: OutcomeAlreadyFinished}, nil
	}

	if !player.Started() {
		if tag != c.chain.FirstTag() {
			return nil, model.ErrMustScanFirst
		}
		err := c.store.StartHunt(ctx, id, tag, c.clock.Now())
		if err != nil && !errors.Is(err, model.ErrAlreadyStarted) {
			return nil, err
		}
		// Re-read and process the scan against the started state
		player, err = c.store.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if tag != player.CurrentTag {
		return c.wrongTag(player), nil
	}

	if scanned.NextTag != "" {
		err := c.store.AdvancePlayer(ctx, id, tag, scanned.NextTag, c.clock.Now())
		if err != nil {
			return c.resolveConflict(ctx, id, err)
		}
		c.logger.Info("player advanced",
			slog.String("player_id", string(id)),
			slog.String("scanned_tag", tag),
			slog.String("next_tag", scanned.NextTag),
		)
		return &ScanResult{Outcome: OutcomeAdvanced, Clue: scanned.Clue}, nil
	}

	result, err := c.store.FinishHunt(ctx, id, tag, c.clock.Now())
	if err != nil {
		return c.resolveConflict(ctx, id, err)
	}
	c.logger.Info("hunt finished",
		slog.String("player_id", string(id)),
		slog.Duration("duration", result.Duration),
		slog.Int("rank", result.Rank),
	)
	return &ScanResult{
		Outcome:  OutcomeFinished,
		Clue:     scanned.Clue,
		Final:    true,
		Duration: result.Duration,
		Rank:     result.Rank,
	}, nil
}

// wrongTag builds the reorientation result for an out-of-order scan
func (c *Controller) wrongTag(player *model.Player) *ScanResult {
	res := &ScanResult{Outcome: OutcomeWrongTag}
	if expected, ok := c.chain.Get(player.CurrentTag); ok {
		res.Clue = expected.Clue
	}
	return res
}

// resolveConflict handles a compare-and-set miss: the losing scan of a
// double submission re-reads the committed state and reports against it.
func (c *Controller) resolveConflict(ctx context.Context, id model.PlayerID, err error) (*ScanResult, error) {
	if !errors.Is(err, model.ErrScanConflict) {
		return nil, err
	}
	player, getErr := c.store.GetPlayer(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if player.Finished() {
		return &ScanResult{Outcome: OutcomeAlreadyFinished}, nil
	}
	return c.wrongTag(player), nil
}
