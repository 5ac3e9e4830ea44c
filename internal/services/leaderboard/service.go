// Package leaderboard derives the top-finisher listing from stored
// timestamps. Positions are recomputed fresh on every render; nothing about
// rank is ever persisted.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/mboer/treasurehunt/internal/storage"
)

// Size is the number of rows shown on the leaderboard
const Size = 10

// Entry is one leaderboard row
type Entry struct {
	Position int
	Name     string
	Duration time.Duration
}

// Service computes the leaderboard listing
type Service struct {
	store storage.PlayerStore
}

// New creates a new leaderboard service
func New(store storage.PlayerStore) *Service {
	return &Service{store: store}
}

// Top returns the fastest finishers, ascending by duration, at most Size rows
func (s *Service) Top(ctx context.Context) ([]Entry, error) {
	players, err := s.store.ListFinished(ctx, Size)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(players))
	for i, p := range players {
		d, _ := p.Duration()
		entries = append(entries, Entry{
			Position: i + 1,
			Name:     p.Name,
			Duration: d,
		})
	}
	return entries, nil
}

// FormatDuration renders a duration as "3m 41s".
// Seconds are truncated, not rounded: 119.9s is "1m 59s".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// FormatDurationLong renders a duration as "3 minutes and 41 seconds",
// the wording used on the completion page.
func FormatDurationLong(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d minutes and %d seconds", total/60, total%60)
}
