// Package sim fits per-player scoring distributions from recorded game logs
// and composes independent player simulations into team-level win probability
// and point-spread distributions.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fast-break/internal/metrics"
	"github.com/yourusername/fast-break/internal/models"
	"github.com/yourusername/fast-break/internal/store"
)

// Config configures a simulation run.
type Config struct {
	Draws int
	Seed  int64 // 0 means seed from the wall clock
}

// Result holds the simulated outcome distribution for one matchup.
type Result struct {
	HomeTeamID         string    `json:"home_team_id"`
	AwayTeamID         string    `json:"away_team_id"`
	Draws              int       `json:"draws"`
	HomeWinProbability float64   `json:"home_win_probability"`
	MeanSpread         float64   `json:"mean_spread"`
	SpreadSamples      []float64 `json:"spread_samples"`
}

// Simulator loads two teams' stores and runs Monte Carlo game simulations.
type Simulator struct {
	store  store.TeamStore
	logger *logrus.Logger
}

// NewSimulator creates a simulator backed by the given store.
func NewSimulator(teamStore store.TeamStore, logger *logrus.Logger) *Simulator {
	return &Simulator{store: teamStore, logger: logger}
}

// Simulate runs cfg.Draws independent simulations of home vs away. Each
// player's score is drawn from a Normal fitted to their recorded points; a
// player with fewer than two recorded games degenerates to a point mass,
// which is accepted rather than rejected. Ties count as home wins. Spread is
// away minus home, so a positive spread favors the home team.
func (s *Simulator) Simulate(ctx context.Context, homeID, awayID string, cfg Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.Draws <= 0 {
		return nil, fmt.Errorf("draws must be positive, got %d", cfg.Draws)
	}

	home, err := s.store.Load(homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load home team: %w", err)
	}
	away, err := s.store.Load(awayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load away team: %w", err)
	}
	game := models.NewGame(home, away)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	started := time.Now()
	homeScores := simulateRoster(rng, game.HomeRoster, cfg.Draws)
	awayScores := simulateRoster(rng, game.AwayRoster, cfg.Draws)

	homeWins := 0
	spreads := make([]float64, cfg.Draws)
	for i := 0; i < cfg.Draws; i++ {
		if homeScores[i] >= awayScores[i] {
			homeWins++
		}
		spreads[i] = awayScores[i] - homeScores[i]
	}

	mean, _ := meanStd(spreads)
	result := &Result{
		HomeTeamID:         homeID,
		AwayTeamID:         awayID,
		Draws:              cfg.Draws,
		HomeWinProbability: float64(homeWins) / float64(cfg.Draws),
		MeanSpread:         mean,
		SpreadSamples:      spreads,
	}

	metrics.SimulationsTotal.Inc()
	metrics.SimulationDuration.Observe(time.Since(started).Seconds())
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"home":     homeID,
			"away":     awayID,
			"draws":    cfg.Draws,
			"win_prob": result.HomeWinProbability,
			"spread":   result.MeanSpread,
		}).Info("Simulation completed")
	}
	return result, nil
}

// simulateRoster draws one team score per simulation: the sum over the
// roster of each player's sampled points. Negative and NaN draws are clamped
// to zero since a player cannot score negative points.
func simulateRoster(rng *rand.Rand, roster map[string]*models.PlayerRecord, draws int) []float64 {
	scores := make([]float64, draws)
	for _, player := range sortedPlayers(roster) {
		dist := fitNormal(player.PointsHistory())
		for i := 0; i < draws; i++ {
			sample := dist.Mean + dist.Std*rng.NormFloat64()
			if math.IsNaN(sample) || sample < 0 {
				sample = 0
			}
			scores[i] += sample
		}
	}
	return scores
}

// ProbabilityOfValue fits a Normal to the samples and returns its CDF at
// threshold: the probability that a draw from the fitted distribution is at
// or under the threshold. Used to answer "probability the spread lands at or
// under line X".
func ProbabilityOfValue(samples []float64, threshold float64) float64 {
	dist := fitNormal(samples)
	return dist.CDF(threshold)
}
