// Package service coordinates stores, fetchers and the simulator into
// higher level workflows.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fast-break/internal/fetch"
	"github.com/yourusername/fast-break/internal/lines"
	"github.com/yourusername/fast-break/internal/models"
	"github.com/yourusername/fast-break/internal/odds"
	"github.com/yourusername/fast-break/internal/sim"
	"github.com/yourusername/fast-break/internal/store"
)

// SlateGame is a single matchup between two tracked teams on a given date.
type SlateGame struct {
	Date       time.Time
	HomeTeamID string
	AwayTeamID string
}

// SlateEntry pairs a simulated matchup with its market line, when available.
type SlateEntry struct {
	Game              SlateGame
	Result            *sim.Result
	Line              *lines.MarketLine
	HomeMarketImplied float64
	HomeModelEdge     float64
}

// SlateReport summarizes one slate run.
type SlateReport struct {
	RunID   string
	Date    time.Time
	Entries []SlateEntry
	Skipped []string
}

// SlateService discovers the day's matchups among tracked teams, simulates
// each one and compares model probabilities against market lines.
type SlateService struct {
	store     store.TeamStore
	fetcher   fetch.ContentFetcher
	simulator *sim.Simulator
	lines     lines.LineProvider
	logger    *logrus.Logger
	teams     []string
}

// NewSlateService creates a slate service. The line provider is optional;
// when nil, entries carry simulation results only.
func NewSlateService(
	ts store.TeamStore,
	fetcher fetch.ContentFetcher,
	simulator *sim.Simulator,
	provider lines.LineProvider,
	teams []string,
	logger *logrus.Logger,
) *SlateService {
	return &SlateService{
		store:     ts,
		fetcher:   fetcher,
		simulator: simulator,
		lines:     provider,
		logger:    logger,
		teams:     teams,
	}
}

// FindGames returns the matchups on the given date where both sides are
// tracked teams. Each matchup appears once, keyed from the home side.
func (s *SlateService) FindGames(ctx context.Context, date time.Time) ([]SlateGame, error) {
	day := models.Day(date)
	tracked := make(map[string]bool, len(s.teams))
	for _, t := range s.teams {
		tracked[t] = true
	}

	seen := make(map[string]bool)
	var games []SlateGame

	for _, teamID := range s.teams {
		schedule, err := s.fetcher.FetchSchedule(ctx, teamID)
		if err != nil {
			s.logger.WithError(err).WithField("team_id", teamID).
				Warn("Failed to fetch schedule for slate")
			continue
		}

		for _, g := range schedule {
			if !models.Day(g.Date).Equal(day) {
				continue
			}
			if !tracked[g.Opponent] {
				continue
			}

			home, away := teamID, g.Opponent
			if g.Venue == models.VenueAway {
				home, away = g.Opponent, teamID
			}

			key := home + "|" + away
			if seen[key] {
				continue
			}
			seen[key] = true

			games = append(games, SlateGame{Date: day, HomeTeamID: home, AwayTeamID: away})
		}
	}

	return games, nil
}

// Run simulates every tracked matchup on the given date and attaches market
// lines when a provider is configured. Games whose stores cannot be loaded
// are skipped and reported, not fatal.
func (s *SlateService) Run(ctx context.Context, date time.Time, cfg sim.Config) (*SlateReport, error) {
	games, err := s.FindGames(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("finding slate games: %w", err)
	}

	report := &SlateReport{
		RunID: uuid.New().String(),
		Date:  models.Day(date),
	}

	for _, g := range games {
		result, err := s.simulator.Simulate(ctx, g.HomeTeamID, g.AwayTeamID, cfg)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"home": g.HomeTeamID,
				"away": g.AwayTeamID,
			}).Warn("Slate simulation failed")
			report.Skipped = append(report.Skipped,
				fmt.Sprintf("%s vs %s: %v", g.HomeTeamID, g.AwayTeamID, err))
			continue
		}

		entry := SlateEntry{Game: g, Result: result}
		s.attachLine(ctx, &entry)
		report.Entries = append(report.Entries, entry)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":  report.RunID,
		"date":    report.Date.Format("2006-01-02"),
		"games":   len(report.Entries),
		"skipped": len(report.Skipped),
	}).Info("Slate run completed")

	return report, nil
}

func (s *SlateService) attachLine(ctx context.Context, entry *SlateEntry) {
	if s.lines == nil {
		return
	}

	line, err := s.lines.FetchLine(ctx, entry.Game.HomeTeamID, entry.Game.AwayTeamID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"home": entry.Game.HomeTeamID,
			"away": entry.Game.AwayTeamID,
		}).Debug("No market line for matchup")
		return
	}

	entry.Line = line
	if !line.HomeMoneyline.Equal(decimal.Zero) {
		ml, _ := line.HomeMoneyline.Float64()
		entry.HomeMarketImplied = odds.ImpliedProbability(ml)
		entry.HomeModelEdge = entry.Result.HomeWinProbability - entry.HomeMarketImplied
	}
}
