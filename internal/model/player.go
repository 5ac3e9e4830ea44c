package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// FinishedTag is the reserved current-tag value marking hunt completion.
// It is never a valid clue tag identifier.
const FinishedTag = "FINISHED"

// Player represents a registered hunt participant.
// All authoritative state lives here; the session only carries the ID.
type Player struct {
	ID   PlayerID
	Name string

	// CurrentTag is the tag the player must scan next.
	// Empty until the hunt starts, FinishedTag once it is done.
	CurrentTag string

	StartTime    *time.Time
	EndTime      *time.Time
	LastScanTime *time.Time

	CreatedAt time.Time
}

// Started reports whether the player's timer is running (or has run)
func (p *Player) Started() bool {
	return p.StartTime != nil
}

// Finished reports whether the player has completed the hunt
func (p *Player) Finished() bool {
	return p.EndTime != nil
}

// Duration returns the elapsed hunt time for a finished player.
// The second return is false if the player has not finished.
func (p *Player) Duration() (time.Duration, bool) {
	if p.StartTime == nil || p.EndTime == nil {
		return 0, false
	}
	return p.EndTime.Sub(*p.StartTime), true
}

// FinishResult captures the values computed at the moment a player
// completes the hunt. Rank is a point-in-time snapshot: it is never
// stored and may go stale as faster players finish later.
type FinishResult struct {
	Duration time.Duration
	Rank     int
}
