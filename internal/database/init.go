package database

import (
	"context"

	"github.com/yourusername/fast-break/internal/config"
)

const gameLogSchema = `
CREATE TABLE IF NOT EXISTS game_logs (
	team_id    TEXT        NOT NULL,
	player_id  TEXT        NOT NULL,
	game_date  DATE        NOT NULL,
	opponent   TEXT        NOT NULL,
	venue      TEXT        NOT NULL,
	played     BOOLEAN     NOT NULL,
	points     INTEGER     NOT NULL,
	minutes    INTEGER     NOT NULL,
	rebounds   INTEGER     NOT NULL,
	assists    INTEGER     NOT NULL,
	run_id     TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (team_id, player_id, game_date)
);
CREATE INDEX IF NOT EXISTS idx_game_logs_team_date ON game_logs (team_id, game_date);
`

// Initialize creates a database connection pool and ensures the game log
// index schema exists. The relational index is an ad hoc query surface; the
// file store stays the source of truth.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, gameLogSchema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
