// Package fetch retrieves rosters, schedules, and box scores from external
// content providers and exposes them as already-tabular typed rows.
package fetch

import (
	"context"
	"time"

	"github.com/yourusername/fast-break/internal/models"
)

// ContentFetcher is the narrow boundary to the outside world. The update
// engine and the pull command consume tabular rows through it and never see
// HTML or provider-specific identifiers beyond the opaque detail link.
type ContentFetcher interface {
	// FetchRoster retrieves the current roster for a team.
	FetchRoster(ctx context.Context, teamID string) ([]RosterEntry, error)

	// FetchSchedule retrieves a team's full season schedule, played and
	// upcoming, in chronological order.
	FetchSchedule(ctx context.Context, teamID string) ([]ScheduledGame, error)

	// FetchBoxScore retrieves per-player lines for both sides of one game.
	FetchBoxScore(ctx context.Context, detailLink string) (BoxScore, error)

	// FetchPlayerGameLog retrieves a player's full-season game log for the
	// initial history pull.
	FetchPlayerGameLog(ctx context.Context, detailLink string) ([]models.GameLogEntry, error)
}

// RosterEntry is one row of a fetched roster table.
type RosterEntry struct {
	PlayerID   string `json:"player_id"`
	DetailLink string `json:"detail_link"`
}

// ScheduledGame is one row of a fetched schedule table.
type ScheduledGame struct {
	Date       time.Time    `json:"date"`
	Opponent   string       `json:"opponent"`
	Venue      models.Venue `json:"venue"`
	DetailLink string       `json:"detail_link"`
}

// PlayerLine is one player's stat line from a fetched box score.
type PlayerLine struct {
	Played   bool `json:"played"`
	Points   int  `json:"points"`
	Minutes  int  `json:"minutes"`
	Rebounds int  `json:"rebounds"`
	Assists  int  `json:"assists"`
}

// BoxScore maps team ID to player ID to that player's line for one game.
// Exactly two team keys are expected.
type BoxScore map[string]map[string]PlayerLine

// Sides returns the two team IDs present in the box score.
func (b BoxScore) Sides() []string {
	sides := make([]string, 0, len(b))
	for team := range b {
		sides = append(sides, team)
	}
	return sides
}

// Opponent resolves which fetched side is teamID and which is its opponent.
// It fails when the box score does not name teamID exactly once among
// exactly two sides; guessing here would misattribute stats and corrupt
// both teams' stores.
func (b BoxScore) Opponent(teamID string) (string, error) {
	sides := b.Sides()
	if len(sides) != 2 {
		return "", NewFetchError("boxscore", ErrCodeInvalidData,
			"box score does not contain exactly two teams", nil)
	}
	switch teamID {
	case sides[0]:
		return sides[1], nil
	case sides[1]:
		return sides[0], nil
	}
	return "", NewFetchError("boxscore", ErrCodeInvalidData,
		"box score does not mention team "+teamID, nil)
}
