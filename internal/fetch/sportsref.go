package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/fast-break/internal/metrics"
	"github.com/yourusername/fast-break/internal/models"
)

const (
	defaultBaseURL  = "https://www.sports-reference.com"
	pageCacheTTL    = 15 * time.Minute
	boxScorePrefix  = "box-score-basic-"
	didNotPlayLabel = "Did Not Play"
)

// SportsRefClient fetches college basketball pages from a sports-reference
// style site and parses their stat tables. Fetched documents are cached so
// that an update touching many games does not re-download shared pages.
type SportsRefClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	season     int
	cache      *gocache.Cache
}

// NewSportsRefClient creates a client for the given season (the year the
// season ends in, e.g. 2024 for 2023-24).
func NewSportsRefClient(httpClient *RateLimitedHTTPClient, baseURL string, season int) *SportsRefClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &SportsRefClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		season:     season,
		cache:      gocache.New(pageCacheTTL, 2*pageCacheTTL),
	}
}

// FetchRoster retrieves the roster table for a team.
func (c *SportsRefClient) FetchRoster(ctx context.Context, teamID string) ([]RosterEntry, error) {
	url := fmt.Sprintf("%s/cbb/schools/%s/men/%d.html", c.baseURL, teamID, c.season)
	doc, err := c.document(ctx, "roster", url)
	if err != nil {
		return nil, err
	}

	var roster []RosterEntry
	doc.Find("table#roster tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("th[data-stat=player] a").First()
		name := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if name == "" || !ok {
			return
		}
		roster = append(roster, RosterEntry{PlayerID: name, DetailLink: c.baseURL + href})
	})

	if len(roster) == 0 {
		return nil, NewFetchError("roster", ErrCodeInvalidData, "no roster rows found at "+url, nil)
	}
	return roster, nil
}

// FetchSchedule retrieves a team's season schedule. Rows without a parseable
// date are skipped.
func (c *SportsRefClient) FetchSchedule(ctx context.Context, teamID string) ([]ScheduledGame, error) {
	url := fmt.Sprintf("%s/cbb/schools/%s/men/%d-schedule.html", c.baseURL, teamID, c.season)
	doc, err := c.document(ctx, "schedule", url)
	if err != nil {
		return nil, err
	}

	var games []ScheduledGame
	doc.Find("table#schedule tbody tr").Each(func(_ int, row *goquery.Selection) {
		dateCell := row.Find("td[data-stat=date_game]")
		date, err := parseGameDate(strings.TrimSpace(dateCell.Text()))
		if err != nil {
			return
		}

		game := ScheduledGame{
			Date:     date,
			Opponent: opponentSlug(row.Find("td[data-stat=opp_name] a")),
			Venue:    parseVenue(strings.TrimSpace(row.Find("td[data-stat=game_location]").Text())),
		}
		if href, ok := dateCell.Find("a").Attr("href"); ok {
			game.DetailLink = c.baseURL + href
		}
		if game.Opponent == "" {
			return
		}
		games = append(games, game)
	})

	if len(games) == 0 {
		return nil, NewFetchError("schedule", ErrCodeInvalidData, "no schedule rows found at "+url, nil)
	}
	return games, nil
}

// FetchBoxScore retrieves both teams' basic box score tables for one game.
func (c *SportsRefClient) FetchBoxScore(ctx context.Context, detailLink string) (BoxScore, error) {
	doc, err := c.document(ctx, "boxscore", detailLink)
	if err != nil {
		return nil, err
	}

	box := make(BoxScore)
	doc.Find("table[id^=" + boxScorePrefix + "]").Each(func(_ int, table *goquery.Selection) {
		id, ok := table.Attr("id")
		if !ok {
			return
		}
		teamID := strings.TrimPrefix(id, boxScorePrefix)
		lines := make(map[string]PlayerLine)

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			name := strings.TrimSpace(row.Find("th[data-stat=player]").Text())
			if name == "" || name == "Reserves" {
				return
			}
			lines[name] = parsePlayerLine(row)
		})

		if len(lines) > 0 {
			box[teamID] = lines
		}
	})

	if len(box) != 2 {
		return nil, NewFetchError("boxscore", ErrCodeInvalidData,
			fmt.Sprintf("expected 2 box score tables at %s, found %d", detailLink, len(box)), nil)
	}
	return box, nil
}

// FetchPlayerGameLog retrieves a player's full season game log for the
// initial history pull.
func (c *SportsRefClient) FetchPlayerGameLog(ctx context.Context, detailLink string) ([]models.GameLogEntry, error) {
	doc, err := c.document(ctx, "gamelog", gameLogURL(detailLink))
	if err != nil {
		return nil, err
	}

	var entries []models.GameLogEntry
	doc.Find("table#gamelog tbody tr").Each(func(_ int, row *goquery.Selection) {
		date, err := parseGameDate(strings.TrimSpace(row.Find("td[data-stat=date_game]").Text()))
		if err != nil {
			return
		}
		entry := models.GameLogEntry{
			Date:     models.Day(date),
			Opponent: opponentSlug(row.Find("td[data-stat=opp_id] a")),
			Venue:    parseVenue(strings.TrimSpace(row.Find("td[data-stat=game_location]").Text())),
		}
		line := parsePlayerLine(row)
		entry.Played = line.Played
		entry.Points = line.Points
		entry.Minutes = line.Minutes
		entry.Rebounds = line.Rebounds
		entry.Assists = line.Assists
		entries = append(entries, entry)
	})

	if len(entries) == 0 {
		return nil, NewFetchError("gamelog", ErrCodeInvalidData, "no game log rows found at "+detailLink, nil)
	}
	return entries, nil
}

func (c *SportsRefClient) document(ctx context.Context, source, url string) (*goquery.Document, error) {
	if cached, ok := c.cache.Get(url); ok {
		return cached.(*goquery.Document), nil
	}

	metrics.FetchRequestsTotal.WithLabelValues(source).Inc()
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewFetchError(source, ErrCodeNetworkError, "request failed for "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewFetchError(source, ErrCodeRateLimited, "rate limited at "+url, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewFetchError(source, ErrCodeBadStatus,
			fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, url), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, NewFetchError(source, ErrCodeInvalidData, "failed to parse "+url, err)
	}

	c.cache.Set(url, doc, gocache.DefaultExpiration)
	return doc, nil
}

func parsePlayerLine(row *goquery.Selection) PlayerLine {
	pts := strings.TrimSpace(row.Find("td[data-stat=pts]").Text())
	if pts == "" || strings.Contains(row.Text(), didNotPlayLabel) {
		return PlayerLine{Played: false}
	}
	return PlayerLine{
		Played:   true,
		Points:   parseStat(pts),
		Minutes:  parseStat(strings.TrimSpace(row.Find("td[data-stat=mp]").Text())),
		Rebounds: parseStat(strings.TrimSpace(row.Find("td[data-stat=trb]").Text())),
		Assists:  parseStat(strings.TrimSpace(row.Find("td[data-stat=ast]").Text())),
	}
}

// parseStat converts a stat cell to an int, treating blanks and placeholder
// text as zero rather than failing the whole row.
func parseStat(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseGameDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "Mon, Jan 2, 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseVenue maps the schedule "location" column to a venue; "@" marks a
// road game, anything else (blank or "N") is treated as home.
func parseVenue(s string) models.Venue {
	if s == "@" {
		return models.VenueAway
	}
	return models.VenueHome
}

// opponentSlug extracts the school slug from an opponent link, falling back
// to the link text when the href shape is unexpected.
func opponentSlug(link *goquery.Selection) string {
	if href, ok := link.Attr("href"); ok {
		parts := strings.Split(strings.Trim(href, "/"), "/")
		// /cbb/schools/<slug>/men/<year>.html
		if len(parts) >= 3 && parts[1] == "schools" {
			return parts[2]
		}
	}
	return strings.TrimSpace(link.Text())
}

func gameLogURL(detailLink string) string {
	if strings.HasSuffix(detailLink, ".html") {
		return strings.TrimSuffix(detailLink, ".html") + "/gamelog"
	}
	return detailLink
}
