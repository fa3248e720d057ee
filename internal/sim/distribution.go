package sim

import (
	"math"
	"sort"

	"github.com/yourusername/fast-break/internal/models"
)

// Normal is a fitted Normal distribution. A zero Std is a point mass at the
// mean, the accepted degenerate fit for players with fewer than two games.
type Normal struct {
	Mean float64
	Std  float64
}

// CDF evaluates the cumulative distribution function at x. The point-mass
// case is a step function.
func (n Normal) CDF(x float64) float64 {
	if n.Std == 0 {
		if x >= n.Mean {
			return 1
		}
		return 0
	}
	return 0.5 * (1 + math.Erf((x-n.Mean)/(n.Std*math.Sqrt2)))
}

// fitNormal fits a Normal by sample mean and standard deviation. Empty input
// yields a point mass at zero.
func fitNormal(values []float64) Normal {
	mean, std := meanStd(values)
	return Normal{Mean: mean, Std: std}
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// sortedPlayers returns roster players in stable ID order so a seeded run is
// reproducible regardless of map iteration order.
func sortedPlayers(roster map[string]*models.PlayerRecord) []*models.PlayerRecord {
	players := make([]*models.PlayerRecord, 0, len(roster))
	for _, p := range roster {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].PlayerID < players[j].PlayerID })
	return players
}
