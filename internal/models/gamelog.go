package models

import (
	"fmt"
	"time"
)

// Venue indicates whether a game was played at home or away.
type Venue string

const (
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// Opposite returns the other side's venue for the same game.
func (v Venue) Opposite() Venue {
	if v == VenueHome {
		return VenueAway
	}
	return VenueHome
}

// GameLogEntry represents one played game by one player. Entries are
// immutable once recorded; a player's history only grows by appending.
type GameLogEntry struct {
	Date     time.Time `json:"date" validate:"required"`
	Opponent string    `json:"opponent" validate:"required"`
	Venue    Venue     `json:"venue" validate:"oneof=home away"`
	Played   bool      `json:"played"`
	Points   int       `json:"points" validate:"gte=0"`
	Minutes  int       `json:"minutes" validate:"gte=0"`
	Rebounds int       `json:"rebounds" validate:"gte=0"`
	Assists  int       `json:"assists" validate:"gte=0"`
}

// Day truncates a timestamp to its UTC calendar date. All game dates are
// stored in this normalized form so date comparisons are exact.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PlayerRecord holds the append-only game log for a single player.
type PlayerRecord struct {
	PlayerID string         `json:"player_id" validate:"required"`
	Games    []GameLogEntry `json:"games"`
}

// LastRecordedDate returns the date of a player's most recent recorded game
// and false when no games have been recorded yet. Games are kept in
// ascending date order, so this is the last element.
func (p *PlayerRecord) LastRecordedDate() (time.Time, bool) {
	if len(p.Games) == 0 {
		return time.Time{}, false
	}
	return p.Games[len(p.Games)-1].Date, true
}

// Append adds a new entry to the player's log. It fails if the entry's date
// is not strictly after the last recorded date, which keeps the log strictly
// increasing and makes re-appending an already recorded game impossible.
func (p *PlayerRecord) Append(entry GameLogEntry) error {
	entry.Date = Day(entry.Date)
	if last, ok := p.LastRecordedDate(); ok && !entry.Date.After(last) {
		return fmt.Errorf("game on %s is not after last recorded date %s: %w",
			entry.Date.Format("2006-01-02"), last.Format("2006-01-02"), ErrOutOfOrder)
	}
	p.Games = append(p.Games, entry)
	return nil
}

// PointsHistory returns the player's historical point totals in game order,
// skipping placeholder rows for games the player did not appear in.
func (p *PlayerRecord) PointsHistory() []float64 {
	points := make([]float64, 0, len(p.Games))
	for _, g := range p.Games {
		if !g.Played {
			continue
		}
		points = append(points, float64(g.Points))
	}
	return points
}
