package lines

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/fast-break/internal/fetch"
	"github.com/yourusername/fast-break/internal/models"
)

const (
	defaultOddsBaseURL = "https://api.the-odds-api.com/v4/sports"
	defaultSportKey    = "basketball_ncaab"
)

// OddsAPIClient implements LineProvider against a the-odds-api style JSON
// endpoint.
type OddsAPIClient struct {
	httpClient *fetch.RateLimitedHTTPClient
	baseURL    string
	sportKey   string
	apiKey     string
}

// NewOddsAPIClient creates a line provider. An empty baseURL selects the
// hosted API.
func NewOddsAPIClient(httpClient *fetch.RateLimitedHTTPClient, baseURL, sportKey, apiKey string) *OddsAPIClient {
	if baseURL == "" {
		baseURL = defaultOddsBaseURL
	}
	if sportKey == "" {
		sportKey = defaultSportKey
	}
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sportKey:   sportKey,
		apiKey:     apiKey,
	}
}

type oddsEvent struct {
	HomeTeam   string      `json:"home_team"`
	AwayTeam   string      `json:"away_team"`
	Bookmakers []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key     string   `json:"key"`
	Markets []market `json:"markets"`
}

type market struct {
	Key      string    `json:"key"`
	Outcomes []outcome `json:"outcomes"`
}

type outcome struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Point decimal.Decimal `json:"point"`
}

// FetchLine retrieves the h2h and spreads markets for a matchup from the
// first bookmaker quoting both.
func (c *OddsAPIClient) FetchLine(ctx context.Context, homeTeam, awayTeam string) (*MarketLine, error) {
	endpoint := fmt.Sprintf("%s/%s/odds?apiKey=%s&regions=us&markets=h2h,spreads&oddsFormat=american",
		c.baseURL, c.sportKey, url.QueryEscape(c.apiKey))

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fetch.NewFetchError("lines", fetch.ErrCodeNetworkError, "odds request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fetch.NewFetchError("lines", fetch.ErrCodeBadStatus,
			fmt.Sprintf("unexpected status %d from odds API", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fetch.NewFetchError("lines", fetch.ErrCodeNetworkError, "failed to read odds response", err)
	}

	var events []oddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fetch.NewFetchError("lines", fetch.ErrCodeInvalidData, "failed to decode odds response", err)
	}

	for _, event := range events {
		if !teamMatches(event.HomeTeam, homeTeam) || !teamMatches(event.AwayTeam, awayTeam) {
			continue
		}
		for _, book := range event.Bookmakers {
			if line, ok := extractLine(event, book); ok {
				return line, nil
			}
		}
	}
	return nil, fmt.Errorf("no market line for %s vs %s: %w", homeTeam, awayTeam, models.ErrNotFound)
}

func extractLine(event oddsEvent, book bookmaker) (*MarketLine, bool) {
	line := &MarketLine{HomeTeam: event.HomeTeam, AwayTeam: event.AwayTeam}
	haveH2H, haveSpreads := false, false

	for _, m := range book.Markets {
		switch m.Key {
		case "h2h":
			for _, o := range m.Outcomes {
				if teamMatches(o.Name, event.HomeTeam) {
					line.HomeMoneyline = o.Price
					haveH2H = true
				} else if teamMatches(o.Name, event.AwayTeam) {
					line.AwayMoneyline = o.Price
				}
			}
		case "spreads":
			for _, o := range m.Outcomes {
				if teamMatches(o.Name, event.HomeTeam) {
					line.Spread = o.Point
					line.HomeSpreadPrice = o.Price
					haveSpreads = true
				} else if teamMatches(o.Name, event.AwayTeam) {
					line.AwaySpreadPrice = o.Price
				}
			}
		}
	}
	return line, haveH2H && haveSpreads
}

// teamMatches compares team names loosely: the odds feed uses display names
// while stores use slugs, so compare on lowercased alphanumerics.
func teamMatches(a, b string) bool {
	return normalize(a) == normalize(b) ||
		strings.Contains(normalize(a), normalize(b)) ||
		strings.Contains(normalize(b), normalize(a))
}

func normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
