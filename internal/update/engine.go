// Package update brings persisted team game logs up to date with games
// actually played. The merge is idempotent: entries are only appended for
// dates strictly after the most recent date already recorded, so re-running
// an update never duplicates history.
package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fast-break/internal/fetch"
	"github.com/yourusername/fast-break/internal/metrics"
	"github.com/yourusername/fast-break/internal/models"
	"github.com/yourusername/fast-break/internal/repository"
	"github.com/yourusername/fast-break/internal/store"
)

// Engine merges freshly fetched games into the team store. A single game's
// results propagate into both participating teams' stores even when only one
// team's update was requested.
type Engine struct {
	store   store.TeamStore
	fetcher fetch.ContentFetcher
	index   repository.GameLogIndex
	logger  *logrus.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's notion of "today". Tests use this to make
// the played/upcoming partition deterministic.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIndex attaches an optional relational index that receives one row per
// appended entry for ad hoc querying. Index failures are logged, never
// fatal; the file store remains the source of truth.
func WithIndex(index repository.GameLogIndex) Option {
	return func(e *Engine) { e.index = index }
}

// NewEngine creates an update engine.
func NewEngine(teamStore store.TeamStore, fetcher fetch.ContentFetcher, logger *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:   teamStore,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Update brings teamID's persisted history current. Per-game failures (a
// missing opponent store, a malformed box score, a failed fetch) are
// collected in the report and never abort the remaining queue. A missing
// target store or a failed persist is fatal.
func (e *Engine) Update(ctx context.Context, teamID string) (*models.UpdateReport, error) {
	started := time.Now()
	report := &models.UpdateReport{RunID: uuid.New().String(), TeamID: teamID}

	target, err := e.store.Load(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team %q: %w", teamID, err)
	}

	queue, err := e.buildQueue(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		if err := e.store.Save(target); err != nil {
			return nil, fmt.Errorf("failed to persist team %q: %w", teamID, err)
		}
		e.finish(report, started)
		return report, nil
	}

	// Stores touched this run, keyed by team ID. The target is always
	// persisted; opponents are persisted once the queue drains.
	affected := map[string]*models.TeamRecord{teamID: target}
	for _, game := range queue {
		e.applyGame(ctx, game, target, affected, report)
	}

	for _, record := range affected {
		if err := e.store.Save(record); err != nil {
			return nil, fmt.Errorf("failed to persist team %q: %w", record.TeamID, err)
		}
	}

	e.finish(report, started)
	return report, nil
}

// buildQueue fetches the schedule and returns the played games dated
// strictly after the most recent date recorded anywhere on the roster.
func (e *Engine) buildQueue(ctx context.Context, target *models.TeamRecord) ([]fetch.ScheduledGame, error) {
	schedule, err := e.fetcher.FetchSchedule(ctx, target.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %q: %w", target.TeamID, err)
	}

	today := models.Day(e.now())
	lastRecorded, hasHistory := target.MostRecentGameDate()

	var queue []fetch.ScheduledGame
	for _, game := range schedule {
		date := models.Day(game.Date)
		if date.After(today) {
			continue // upcoming
		}
		if hasHistory && !date.After(lastRecorded) {
			continue // already recorded
		}
		game.Date = date
		queue = append(queue, game)
	}
	return queue, nil
}

// applyGame fetches one queued game's box score and appends entries to both
// participating teams' records. Any failure is recorded on the report and
// the rest of the queue continues.
func (e *Engine) applyGame(ctx context.Context, game fetch.ScheduledGame, target *models.TeamRecord, affected map[string]*models.TeamRecord, report *models.UpdateReport) {
	fail := func(reason string) {
		report.Errors = append(report.Errors, models.UpdateError{
			GameDate: game.Date,
			Opponent: game.Opponent,
			Reason:   reason,
		})
	}

	if game.DetailLink == "" {
		fail("no box score link in schedule")
		return
	}

	box, err := e.fetcher.FetchBoxScore(ctx, game.DetailLink)
	if err != nil {
		fail(err.Error())
		return
	}

	// Resolve sides from the fetched box score itself rather than trusting
	// the schedule row; a box score that does not name the target fails
	// loudly instead of guessing.
	opponentID, err := box.Opponent(target.TeamID)
	if err != nil {
		fail(err.Error())
		return
	}

	opponent, ok := affected[opponentID]
	if !ok {
		opponent, err = e.store.Load(opponentID)
		if errors.Is(err, models.ErrNotFound) {
			fail(fmt.Sprintf("opponent %q is not tracked", opponentID))
			return
		}
		if err != nil {
			fail(err.Error())
			return
		}
		affected[opponentID] = opponent
	}

	appended := 0
	appended += e.appendSide(game.Date, opponentID, game.Venue, target, box[target.TeamID], report.RunID)
	appended += e.appendSide(game.Date, target.TeamID, game.Venue.Opposite(), opponent, box[opponentID], report.RunID)

	report.GamesAppended++
	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"team":     target.TeamID,
			"opponent": opponentID,
			"date":     game.Date.Format("2006-01-02"),
			"entries":  appended,
		}).Info("Game applied")
	}
}

// appendSide appends one game's lines to every already-tracked player on one
// side. Untracked players are skipped silently (roster drift is expected),
// as are entries whose date is not after the player's last recorded date.
func (e *Engine) appendSide(date time.Time, opponentID string, venue models.Venue, record *models.TeamRecord, lines map[string]fetch.PlayerLine, runID string) int {
	appended := 0
	for playerID, line := range lines {
		player := record.Player(playerID)
		if player == nil {
			continue
		}
		entry := models.GameLogEntry{
			Date:     date,
			Opponent: opponentID,
			Venue:    venue,
			Played:   line.Played,
			Points:   line.Points,
			Minutes:  line.Minutes,
			Rebounds: line.Rebounds,
			Assists:  line.Assists,
		}
		if err := player.Append(entry); err != nil {
			continue
		}
		appended++
		e.indexEntry(record.TeamID, playerID, entry, runID)
	}
	return appended
}

func (e *Engine) indexEntry(teamID, playerID string, entry models.GameLogEntry, runID string) {
	if e.index == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.index.Insert(ctx, teamID, playerID, runID, entry); err != nil && e.logger != nil {
		e.logger.WithError(err).WithFields(logrus.Fields{
			"team":   teamID,
			"player": playerID,
		}).Warn("Failed to index game log entry")
	}
}

func (e *Engine) finish(report *models.UpdateReport, started time.Time) {
	metrics.RecordUpdateRun(time.Since(started).Seconds(), report.GamesAppended, len(report.Errors))
	metrics.LastUpdateTimestamp.WithLabelValues(report.TeamID).SetToCurrentTime()
	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"run_id":   report.RunID,
			"team":     report.TeamID,
			"appended": report.GamesAppended,
			"errors":   len(report.Errors),
		}).Info("Update completed")
	}
}
