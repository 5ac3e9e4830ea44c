// Package memory provides an in-memory PlayerStore, used in tests and for
// local development without a database file.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mboer/treasurehunt/internal/model"
	"github.com/mboer/treasurehunt/internal/storage"
)

// Store is an in-memory implementation of the PlayerStore interface.
// A single mutex serializes the compare-and-set transitions, which gives
// the same effective isolation as the sqlite backend's transactions.
type Store struct {
	mu sync.RWMutex

	players   map[model.PlayerID]*model.Player
	nameIndex map[string]model.PlayerID
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		players:   make(map[model.PlayerID]*model.Player),
		nameIndex: make(map[string]model.PlayerID),
	}
}

// Ensure Store implements the interface
var _ storage.PlayerStore = (*Store)(nil)

func (s *Store) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.nameIndex[player.Name]; taken {
		return model.ErrNameTaken
	}

	cp := clone(player)
	s.players[cp.ID] = cp
	s.nameIndex[cp.Name] = cp.ID
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clone(p), nil
}

func (s *Store) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.nameIndex[name]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clone(s.players[id]), nil
}

func (s *Store) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) RenamePlayer(ctx context.Context, id model.PlayerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if holder, taken := s.nameIndex[name]; taken && holder != id {
		return model.ErrNameTaken
	}

	delete(s.nameIndex, p.Name)
	p.Name = name
	s.nameIndex[name] = id
	return nil
}

func (s *Store) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	delete(s.nameIndex, p.Name)
	delete(s.players, id)
	return nil
}

func (s *Store) StartHunt(ctx context.Context, id model.PlayerID, firstTag string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if p.StartTime != nil {
		return model.ErrAlreadyStarted
	}

	t := now
	p.StartTime = &t
	p.LastScanTime = &t
	p.CurrentTag = firstTag
	return nil
}

func (s *Store) AdvancePlayer(ctx context.Context, id model.PlayerID, fromTag, toTag string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if p.EndTime != nil || p.CurrentTag != fromTag {
		return model.ErrScanConflict
	}

	t := now
	p.CurrentTag = toTag
	p.LastScanTime = &t
	return nil
}

func (s *Store) FinishHunt(ctx context.Context, id model.PlayerID, fromTag string, now time.Time) (*model.FinishResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	if p.EndTime != nil || p.CurrentTag != fromTag || p.StartTime == nil {
		return nil, model.ErrScanConflict
	}

	t := now
	p.CurrentTag = model.FinishedTag
	p.EndTime = &t
	p.LastScanTime = &t

	duration := t.Sub(*p.StartTime)

	// Rank against the other players that had already finished when this
	// update committed; equal durations count, so the second of a tie
	// ranks below the first.
	rank := 1
	for _, other := range s.players {
		if other.ID == id || other.EndTime == nil {
			continue
		}
		if d, ok := other.Duration(); ok && d <= duration {
			rank++
		}
	}

	return &model.FinishResult{Duration: duration, Rank: rank}, nil
}

func (s *Store) ListFinished(ctx context.Context, limit int) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var finished []*model.Player
	for _, p := range s.players {
		if p.EndTime != nil {
			finished = append(finished, clone(p))
		}
	}
	sort.Slice(finished, func(i, j int) bool {
		di, _ := finished[i].Duration()
		dj, _ := finished[j].Duration()
		if di == dj {
			return finished[i].EndTime.Before(*finished[j].EndTime)
		}
		return di < dj
	})
	if limit > 0 && len(finished) > limit {
		finished = finished[:limit]
	}
	return finished, nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make(map[model.PlayerID]*model.Player)
	s.nameIndex = make(map[string]model.PlayerID)
	return nil
}

func (s *Store) Close() error {
	return nil
}

// clone copies a player so callers never share the stored row
func clone(p *model.Player) *model.Player {
	cp := *p
	cp.StartTime = cloneTime(p.StartTime)
	cp.EndTime = cloneTime(p.EndTime)
	cp.LastScanTime = cloneTime(p.LastScanTime)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
