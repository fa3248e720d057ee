package models

import "time"

// UpdateError records why one game in an update batch could not be applied.
// A failed game never aborts the rest of the batch.
type UpdateError struct {
	GameDate time.Time `json:"game_date"`
	Opponent string    `json:"opponent"`
	Reason   string    `json:"reason"`
}

// UpdateReport summarizes a single update run for a team.
type UpdateReport struct {
	RunID         string        `json:"run_id"`
	TeamID        string        `json:"team_id"`
	GamesAppended int           `json:"games_appended"`
	Errors        []UpdateError `json:"errors,omitempty"`
}

// AlreadyCurrent reports whether the run found nothing new to apply.
func (r *UpdateReport) AlreadyCurrent() bool {
	return r.GamesAppended == 0 && len(r.Errors) == 0
}
