package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fast-break/internal/fetch"
	"github.com/yourusername/fast-break/internal/lines"
	"github.com/yourusername/fast-break/internal/models"
	"github.com/yourusername/fast-break/internal/sim"
	"github.com/yourusername/fast-break/internal/store"
)

type scheduleFetcher struct {
	schedules map[string][]fetch.ScheduledGame
}

func (f *scheduleFetcher) FetchRoster(ctx context.Context, teamID string) ([]fetch.RosterEntry, error) {
	return nil, errors.New("not implemented")
}

func (f *scheduleFetcher) FetchSchedule(ctx context.Context, teamID string) ([]fetch.ScheduledGame, error) {
	schedule, ok := f.schedules[teamID]
	if !ok {
		return nil, errors.New("no schedule")
	}
	return schedule, nil
}

func (f *scheduleFetcher) FetchBoxScore(ctx context.Context, detailLink string) (fetch.BoxScore, error) {
	return nil, errors.New("not implemented")
}

func (f *scheduleFetcher) FetchPlayerGameLog(ctx context.Context, detailLink string) ([]models.GameLogEntry, error) {
	return nil, errors.New("not implemented")
}

type fixedLineProvider struct {
	line *lines.MarketLine
	err  error
}

func (p *fixedLineProvider) FetchLine(ctx context.Context, homeTeam, awayTeam string) (*lines.MarketLine, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.line, nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedTeam(t *testing.T, s store.TeamStore, teamID string, points []int) {
	t.Helper()
	record := models.NewTeamRecord(teamID)
	p := record.AddPlayer(teamID + "-star")
	date := day(2025, time.November, 1)
	for _, pts := range points {
		require.NoError(t, p.Append(models.GameLogEntry{
			Date: date, Opponent: "x", Venue: models.VenueHome, Played: true, Points: pts,
		}))
		date = date.AddDate(0, 0, 2)
	}
	require.NoError(t, s.Save(record))
}

func slateFixture(t *testing.T) (*SlateService, store.TeamStore, *scheduleFetcher) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	seedTeam(t, s, "unc", []int{70, 75, 72, 78})
	seedTeam(t, s, "duke", []int{68, 71, 69, 74})
	seedTeam(t, s, "virginia", []int{60, 63, 61, 65})

	gameDay := day(2026, time.January, 10)
	f := &scheduleFetcher{schedules: map[string][]fetch.ScheduledGame{
		"unc": {
			{Date: gameDay, Opponent: "duke", Venue: models.VenueHome, DetailLink: "/g1"},
			{Date: day(2026, time.January, 20), Opponent: "virginia", Venue: models.VenueAway, DetailLink: "/g2"},
		},
		// duke's schedule lists the same game from the away side
		"duke": {
			{Date: gameDay, Opponent: "unc", Venue: models.VenueAway, DetailLink: "/g1"},
		},
		"virginia": {
			{Date: gameDay, Opponent: "gonzaga", Venue: models.VenueHome, DetailLink: "/g3"},
		},
	}}

	simulator := sim.NewSimulator(s, nil)
	svc := NewSlateService(s, f, simulator, nil, []string{"unc", "duke", "virginia"}, discardLogger())
	return svc, s, f
}

func TestFindGamesDeduplicatesAndFiltersUntracked(t *testing.T) {
	svc, _, _ := slateFixture(t)

	games, err := svc.FindGames(context.Background(), day(2026, time.January, 10))
	require.NoError(t, err)

	// unc vs duke appears once despite being on both schedules;
	// virginia vs gonzaga is dropped because gonzaga is untracked
	require.Len(t, games, 1)
	assert.Equal(t, "unc", games[0].HomeTeamID)
	assert.Equal(t, "duke", games[0].AwayTeamID)
}

func TestFindGamesEmptyDate(t *testing.T) {
	svc, _, _ := slateFixture(t)

	games, err := svc.FindGames(context.Background(), day(2026, time.March, 1))
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestRunSimulatesSlate(t *testing.T) {
	svc, _, _ := slateFixture(t)

	report, err := svc.Run(context.Background(), day(2026, time.January, 10), sim.Config{Draws: 500, Seed: 11})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Entries, 1)
	entry := report.Entries[0]
	assert.Equal(t, "unc", entry.Game.HomeTeamID)
	assert.Equal(t, 500, entry.Result.Draws)
	assert.GreaterOrEqual(t, entry.Result.HomeWinProbability, 0.0)
	assert.LessOrEqual(t, entry.Result.HomeWinProbability, 1.0)
	assert.Nil(t, entry.Line, "no provider configured")
}

func TestRunAttachesMarketLine(t *testing.T) {
	svc, _, _ := slateFixture(t)
	svc.lines = &fixedLineProvider{line: &lines.MarketLine{
		HomeTeam:      "North Carolina Tar Heels",
		AwayTeam:      "Duke Blue Devils",
		HomeMoneyline: decimal.NewFromInt(-150),
		AwayMoneyline: decimal.NewFromInt(130),
		Spread:        decimal.NewFromFloat(-3.5),
	}}

	report, err := svc.Run(context.Background(), day(2026, time.January, 10), sim.Config{Draws: 500, Seed: 11})
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)

	entry := report.Entries[0]
	require.NotNil(t, entry.Line)
	assert.InDelta(t, 0.6, entry.HomeMarketImplied, 1e-9)
	assert.InDelta(t, entry.Result.HomeWinProbability-0.6, entry.HomeModelEdge, 1e-9)
}

func TestRunLineFailureIsNotFatal(t *testing.T) {
	svc, _, _ := slateFixture(t)
	svc.lines = &fixedLineProvider{err: errors.New("api quota exhausted")}

	report, err := svc.Run(context.Background(), day(2026, time.January, 10), sim.Config{Draws: 100, Seed: 1})
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	assert.Nil(t, report.Entries[0].Line)
}

func TestRunSkipsUnloadableTeams(t *testing.T) {
	svc, _, f := slateFixture(t)
	// duke's store vanishes between discovery and simulation
	f.schedules["unc"][0].Opponent = "wake-forest"
	f.schedules["wake-forest"] = []fetch.ScheduledGame{
		{Date: day(2026, time.January, 10), Opponent: "unc", Venue: models.VenueAway, DetailLink: "/g1"},
	}
	svc.teams = []string{"unc", "wake-forest"}

	report, err := svc.Run(context.Background(), day(2026, time.January, 10), sim.Config{Draws: 100, Seed: 1})
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	require.Len(t, report.Skipped, 1)
	assert.Contains(t, report.Skipped[0], "wake-forest")
}
