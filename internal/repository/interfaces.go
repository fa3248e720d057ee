// Package repository provides the relational game log index used for ad hoc
// querying. The file store owns the canonical history; rows here are a
// convenience copy written as entries are appended.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/fast-break/internal/models"
)

// GameLogRow is one indexed game log entry.
type GameLogRow struct {
	TeamID    string    `db:"team_id" json:"team_id"`
	PlayerID  string    `db:"player_id" json:"player_id"`
	GameDate  time.Time `db:"game_date" json:"game_date"`
	Opponent  string    `db:"opponent" json:"opponent"`
	Venue     string    `db:"venue" json:"venue"`
	Played    bool      `db:"played" json:"played"`
	Points    int       `db:"points" json:"points"`
	Minutes   int       `db:"minutes" json:"minutes"`
	Rebounds  int       `db:"rebounds" json:"rebounds"`
	Assists   int       `db:"assists" json:"assists"`
	RunID     string    `db:"run_id" json:"run_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GameLogIndex defines the interface for game log index access
type GameLogIndex interface {
	Insert(ctx context.Context, teamID, playerID, runID string, entry models.GameLogEntry) error
	GetByTeam(ctx context.Context, teamID string) ([]GameLogRow, error)
	GetByPlayer(ctx context.Context, teamID, playerID string) ([]GameLogRow, error)
}
