package update

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fast-break/internal/models"
)

// Pull performs the initial full-history pull for a team: fetch the roster,
// fetch every rostered player's season game log, and persist the assembled
// record. A team that already has a store is left untouched so that pull can
// be re-run over a team list safely; incremental growth is Update's job.
func (e *Engine) Pull(ctx context.Context, teamID string) error {
	if e.store.Exists(teamID) {
		if e.logger != nil {
			e.logger.WithField("team", teamID).Info("Team already tracked, skipping pull")
		}
		return nil
	}

	roster, err := e.fetcher.FetchRoster(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to fetch roster for %q: %w", teamID, err)
	}

	record := models.NewTeamRecord(teamID)
	for _, entry := range roster {
		games, err := e.fetcher.FetchPlayerGameLog(ctx, entry.DetailLink)
		if err != nil {
			// A player page that fails to fetch leaves that player with an
			// empty log; the next update fills it in from box scores.
			if e.logger != nil {
				e.logger.WithError(err).WithFields(logrus.Fields{
					"team":   teamID,
					"player": entry.PlayerID,
				}).Warn("Failed to fetch player game log")
			}
			record.AddPlayer(entry.PlayerID)
			continue
		}

		player := record.AddPlayer(entry.PlayerID)
		for _, game := range games {
			if err := player.Append(game); err != nil {
				continue
			}
		}
	}

	if err := e.store.Save(record); err != nil {
		return fmt.Errorf("failed to persist team %q: %w", teamID, err)
	}
	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"team":    teamID,
			"players": len(record.Players),
		}).Info("Initial pull completed")
	}
	return nil
}
