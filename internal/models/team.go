package models

import "time"

// TeamRecord is the unit of durable persistence: every tracked player's
// game log for one team, keyed by player ID.
type TeamRecord struct {
	TeamID  string                   `json:"team_id" validate:"required"`
	Players map[string]*PlayerRecord `json:"players"`
}

// NewTeamRecord creates an empty record for a team.
func NewTeamRecord(teamID string) *TeamRecord {
	return &TeamRecord{
		TeamID:  teamID,
		Players: make(map[string]*PlayerRecord),
	}
}

// Player returns the record for a player, or nil if the player is not
// tracked for this team.
func (t *TeamRecord) Player(playerID string) *PlayerRecord {
	return t.Players[playerID]
}

// AddPlayer registers a player with an empty game log. Existing records are
// left untouched.
func (t *TeamRecord) AddPlayer(playerID string) *PlayerRecord {
	if p, ok := t.Players[playerID]; ok {
		return p
	}
	p := &PlayerRecord{PlayerID: playerID}
	t.Players[playerID] = p
	return p
}

// MostRecentGameDate returns the latest recorded game date across the whole
// roster and false when nothing has been recorded for any player. The update
// queue is derived from this date.
func (t *TeamRecord) MostRecentGameDate() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, p := range t.Players {
		if d, ok := p.LastRecordedDate(); ok && (!found || d.After(latest)) {
			latest = d
			found = true
		}
	}
	return latest, found
}

// Game is an ephemeral two-team view assembled from two TeamRecords at
// simulation time. It is never persisted.
type Game struct {
	HomeTeamID string
	AwayTeamID string
	HomeRoster map[string]*PlayerRecord
	AwayRoster map[string]*PlayerRecord
}

// NewGame builds the simulation view for a matchup.
func NewGame(home, away *TeamRecord) *Game {
	return &Game{
		HomeTeamID: home.TeamID,
		AwayTeamID: away.TeamID,
		HomeRoster: home.Players,
		AwayRoster: away.Players,
	}
}
