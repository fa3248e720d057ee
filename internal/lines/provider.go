// Package lines retrieves market-quoted betting lines for a matchup. The
// simulator never consumes these; they exist only so its output can be
// compared against what the market is pricing.
package lines

import (
	"context"

	"github.com/shopspring/decimal"
)

// MarketLine holds the quoted numbers for one matchup. Moneyline prices are
// American odds; Spread is quoted from the home team's perspective.
type MarketLine struct {
	HomeTeam        string          `json:"home_team"`
	AwayTeam        string          `json:"away_team"`
	Spread          decimal.Decimal `json:"spread"`
	HomeMoneyline   decimal.Decimal `json:"home_moneyline"`
	AwayMoneyline   decimal.Decimal `json:"away_moneyline"`
	HomeSpreadPrice decimal.Decimal `json:"home_spread_price"`
	AwaySpreadPrice decimal.Decimal `json:"away_spread_price"`
}

// LineProvider fetches the current market line for a matchup. Returns
// models.ErrNotFound when no bookmaker quotes the matchup.
type LineProvider interface {
	FetchLine(ctx context.Context, homeTeam, awayTeam string) (*MarketLine, error)
}
