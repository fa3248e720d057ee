package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/yourusername/fast-break/internal/models"
	"github.com/yourusername/fast-break/internal/store"
)

func buildTeam(t *testing.T, s store.TeamStore, teamID string, pointsByPlayer map[string][]int) {
	t.Helper()
	record := models.NewTeamRecord(teamID)
	for playerID, points := range pointsByPlayer {
		p := record.AddPlayer(playerID)
		day := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		for _, pts := range points {
			if err := p.Append(models.GameLogEntry{
				Date: day, Opponent: "someone", Venue: models.VenueHome, Played: true, Points: pts,
			}); err != nil {
				t.Fatalf("append: %v", err)
			}
			day = day.AddDate(0, 0, 2)
		}
	}
	if err := s.Save(record); err != nil {
		t.Fatalf("save %s: %v", teamID, err)
	}
}

func newSimStore(t *testing.T) store.TeamStore {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return s
}

func TestSimulateBasicProperties(t *testing.T) {
	s := newSimStore(t)
	buildTeam(t, s, "strong", map[string][]int{
		"a": {25, 30, 28, 27, 26},
		"b": {20, 22, 18, 21, 19},
	})
	buildTeam(t, s, "weak", map[string][]int{
		"c": {5, 8, 6, 7, 4},
		"d": {10, 9, 11, 8, 12},
	})

	sim := NewSimulator(s, nil)
	result, err := sim.Simulate(context.Background(), "strong", "weak", Config{Draws: 2000, Seed: 7})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if result.Draws != 2000 {
		t.Fatalf("expected 2000 draws, got %d", result.Draws)
	}
	if len(result.SpreadSamples) != 2000 {
		t.Fatalf("expected 2000 spread samples, got %d", len(result.SpreadSamples))
	}
	if result.HomeWinProbability < 0 || result.HomeWinProbability > 1 {
		t.Fatalf("win probability out of range: %v", result.HomeWinProbability)
	}
	// roughly 48 ppg vs 15 ppg, the strong side should nearly always win
	if result.HomeWinProbability < 0.95 {
		t.Fatalf("strong home team win probability too low: %v", result.HomeWinProbability)
	}
	// spread is away minus home, so it should be deeply negative here
	if result.MeanSpread > -20 {
		t.Fatalf("mean spread %v, expected well below -20", result.MeanSpread)
	}
}

func TestSimulateSeededRunsAreReproducible(t *testing.T) {
	s := newSimStore(t)
	buildTeam(t, s, "home", map[string][]int{"a": {10, 14, 12, 16}})
	buildTeam(t, s, "away", map[string][]int{"b": {11, 13, 12, 15}})

	sim := NewSimulator(s, nil)
	cfg := Config{Draws: 500, Seed: 42}

	first, err := sim.Simulate(context.Background(), "home", "away", cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := sim.Simulate(context.Background(), "home", "away", cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.HomeWinProbability != second.HomeWinProbability {
		t.Fatalf("seeded runs diverged: %v vs %v", first.HomeWinProbability, second.HomeWinProbability)
	}
	for i := range first.SpreadSamples {
		if first.SpreadSamples[i] != second.SpreadSamples[i] {
			t.Fatalf("spread sample %d diverged", i)
		}
	}
}

func TestSimulateMissingTeamFails(t *testing.T) {
	s := newSimStore(t)
	buildTeam(t, s, "home", map[string][]int{"a": {10}})

	sim := NewSimulator(s, nil)
	if _, err := sim.Simulate(context.Background(), "home", "missing", Config{Draws: 10, Seed: 1}); err == nil {
		t.Fatal("expected error for missing away team")
	}
	if _, err := sim.Simulate(context.Background(), "missing", "home", Config{Draws: 10, Seed: 1}); err == nil {
		t.Fatal("expected error for missing home team")
	}
}

func TestSimulateRejectsNonPositiveDraws(t *testing.T) {
	sim := NewSimulator(newSimStore(t), nil)
	if _, err := sim.Simulate(context.Background(), "a", "b", Config{Draws: 0}); err == nil {
		t.Fatal("expected error for zero draws")
	}
}

func TestSinglePlayerSingleGameIsPointMass(t *testing.T) {
	s := newSimStore(t)
	// one recorded game each: both distributions degenerate to point masses
	buildTeam(t, s, "home", map[string][]int{"a": {20}})
	buildTeam(t, s, "away", map[string][]int{"b": {10}})

	sim := NewSimulator(s, nil)
	result, err := sim.Simulate(context.Background(), "home", "away", Config{Draws: 100, Seed: 3})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.HomeWinProbability != 1 {
		t.Fatalf("point-mass favorite should always win, got %v", result.HomeWinProbability)
	}
	if result.MeanSpread != -10 {
		t.Fatalf("expected constant spread -10, got %v", result.MeanSpread)
	}
}

func TestTieCountsAsHomeWin(t *testing.T) {
	s := newSimStore(t)
	buildTeam(t, s, "home", map[string][]int{"a": {15}})
	buildTeam(t, s, "away", map[string][]int{"b": {15}})

	sim := NewSimulator(s, nil)
	result, err := sim.Simulate(context.Background(), "home", "away", Config{Draws: 50, Seed: 3})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.HomeWinProbability != 1 {
		t.Fatalf("ties should credit the home side, got %v", result.HomeWinProbability)
	}
}

func TestScoresNeverNegative(t *testing.T) {
	s := newSimStore(t)
	// tiny mean with huge variance produces many negative raw samples
	buildTeam(t, s, "home", map[string][]int{"a": {0, 20, 0, 20}})
	buildTeam(t, s, "away", map[string][]int{"b": {0, 1, 0, 1}})

	sim := NewSimulator(s, nil)
	result, err := sim.Simulate(context.Background(), "home", "away", Config{Draws: 1000, Seed: 9})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	// away score is in [0,1]-ish, home in [0,~40]; spread can never exceed away max
	for _, spread := range result.SpreadSamples {
		if spread > 10 {
			t.Fatalf("spread %v implies a home score below zero", spread)
		}
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Fatalf("mean = %v, want 5", mean)
	}
	if std != 2 {
		t.Fatalf("std = %v, want 2", std)
	}

	mean, std = meanStd(nil)
	if mean != 0 || std != 0 {
		t.Fatalf("empty input should fit zero point mass, got %v/%v", mean, std)
	}
}

func TestNormalCDF(t *testing.T) {
	n := Normal{Mean: 0, Std: 1}
	if got := n.CDF(0); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("CDF(0) = %v, want 0.5", got)
	}
	if got := n.CDF(1.96); math.Abs(got-0.975) > 1e-3 {
		t.Fatalf("CDF(1.96) = %v, want ~0.975", got)
	}

	point := Normal{Mean: 3, Std: 0}
	if point.CDF(2.9) != 0 || point.CDF(3) != 1 {
		t.Fatal("point mass CDF should step at the mean")
	}
}

func TestProbabilityOfValue(t *testing.T) {
	samples := []float64{-4, -2, 0, 2, 4}
	got := ProbabilityOfValue(samples, 0)
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("symmetric samples at threshold 0 should give 0.5, got %v", got)
	}
	if ProbabilityOfValue(samples, 100) < 0.999 {
		t.Fatal("far-right threshold should be near certain")
	}
}
