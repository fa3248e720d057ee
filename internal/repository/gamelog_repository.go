package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/fast-break/internal/database"
	"github.com/yourusername/fast-break/internal/models"
)

const errScanGameLog = "failed to scan game log row: %w"

// PostgresGameLogIndex implements GameLogIndex for PostgreSQL
type PostgresGameLogIndex struct {
	db *database.DB
}

// NewPostgresGameLogIndex creates a new game log index
func NewPostgresGameLogIndex(db *database.DB) GameLogIndex {
	return &PostgresGameLogIndex{db: db}
}

// Insert records one appended game log entry. Re-inserting the same
// (team, player, date) is a no-op so that a re-run update stays idempotent
// here too.
func (r *PostgresGameLogIndex) Insert(ctx context.Context, teamID, playerID, runID string, entry models.GameLogEntry) error {
	query := `
		INSERT INTO game_logs (team_id, player_id, game_date, opponent, venue, played, points, minutes, rebounds, assists, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (team_id, player_id, game_date) DO NOTHING
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		teamID, playerID, entry.Date, entry.Opponent, string(entry.Venue),
		entry.Played, entry.Points, entry.Minutes, entry.Rebounds, entry.Assists, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game log row: %w", err)
	}

	return nil
}

// GetByTeam retrieves all indexed entries for a team ordered by date
func (r *PostgresGameLogIndex) GetByTeam(ctx context.Context, teamID string) ([]GameLogRow, error) {
	query := `
		SELECT team_id, player_id, game_date, opponent, venue, played, points, minutes, rebounds, assists, run_id, created_at
		FROM game_logs
		WHERE team_id = $1
		ORDER BY game_date ASC, player_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	return scanGameLogRows(rows)
}

// GetByPlayer retrieves one player's indexed entries ordered by date
func (r *PostgresGameLogIndex) GetByPlayer(ctx context.Context, teamID, playerID string) ([]GameLogRow, error) {
	query := `
		SELECT team_id, player_id, game_date, opponent, venue, played, points, minutes, rebounds, assists, run_id, created_at
		FROM game_logs
		WHERE team_id = $1 AND player_id = $2
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs: %w", err)
	}
	defer rows.Close()

	return scanGameLogRows(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanGameLogRows(rows pgxRows) ([]GameLogRow, error) {
	var result []GameLogRow
	for rows.Next() {
		var row GameLogRow
		err := rows.Scan(
			&row.TeamID, &row.PlayerID, &row.GameDate, &row.Opponent, &row.Venue,
			&row.Played, &row.Points, &row.Minutes, &row.Rebounds, &row.Assists,
			&row.RunID, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGameLog, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game log rows: %w", err)
	}
	return result, nil
}
