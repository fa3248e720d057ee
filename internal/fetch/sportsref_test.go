package fetch

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fast-break/internal/models"
)

const rosterHTML = `<html><body>
<table id="roster"><tbody>
<tr><th data-stat="player"><a href="/cbb/players/caleb-love-1.html">Caleb Love</a></th></tr>
<tr><th data-stat="player"><a href="/cbb/players/armando-bacot-1.html">Armando Bacot</a></th></tr>
<tr><th data-stat="player"></th></tr>
</tbody></table>
</body></html>`

const scheduleHTML = `<html><body>
<table id="schedule"><tbody>
<tr>
  <td data-stat="date_game"><a href="/cbb/boxscores/2026-01-10-north-carolina.html">2026-01-10</a></td>
  <td data-stat="opp_name"><a href="/cbb/schools/duke/men/2026.html">Duke</a></td>
  <td data-stat="game_location"></td>
</tr>
<tr>
  <td data-stat="date_game"><a href="/cbb/boxscores/2026-01-14-virginia.html">2026-01-14</a></td>
  <td data-stat="opp_name"><a href="/cbb/schools/virginia/men/2026.html">Virginia</a></td>
  <td data-stat="game_location">@</td>
</tr>
<tr>
  <td data-stat="date_game">TBD</td>
  <td data-stat="opp_name"><a href="/cbb/schools/clemson/men/2026.html">Clemson</a></td>
  <td data-stat="game_location"></td>
</tr>
</tbody></table>
</body></html>`

const boxScoreHTML = `<html><body>
<table id="box-score-basic-north-carolina"><tbody>
<tr><th data-stat="player">Caleb Love</th><td data-stat="mp">35</td><td data-stat="trb">4</td><td data-stat="ast">3</td><td data-stat="pts">24</td></tr>
<tr><th data-stat="player">Reserves</th></tr>
<tr><th data-stat="player">Bench Guy</th><td data-stat="reason">Did Not Play</td></tr>
</tbody></table>
<table id="box-score-basic-duke"><tbody>
<tr><th data-stat="player">Kyle Filipowski</th><td data-stat="mp">33</td><td data-stat="trb">9</td><td data-stat="ast">2</td><td data-stat="pts">19</td></tr>
</tbody></table>
</body></html>`

const gameLogHTML = `<html><body>
<table id="gamelog"><tbody>
<tr>
  <td data-stat="date_game">2025-11-10</td>
  <td data-stat="opp_id"><a href="/cbb/schools/kentucky/men/2026.html">Kentucky</a></td>
  <td data-stat="game_location">@</td>
  <td data-stat="mp">30</td><td data-stat="trb">5</td><td data-stat="ast">4</td><td data-stat="pts">17</td>
</tr>
<tr>
  <td data-stat="date_game">2025-11-14</td>
  <td data-stat="opp_id"><a href="/cbb/schools/kansas/men/2026.html">Kansas</a></td>
  <td data-stat="game_location"></td>
  <td data-stat="reason">Did Not Play</td>
</tr>
</tbody></table>
</body></html>`

func newTestClient(t *testing.T, handler http.Handler) *SportsRefClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           5 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         1000,
		UserAgent:         "fast-break-test",
		CircuitBreakerMax: 100,
	}, log.New(new(strings.Builder), "", 0))
	t.Cleanup(func() { httpClient.Close() })

	return NewSportsRefClient(httpClient, server.URL, 2026)
}

func serve(pages map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(page))
	})
}

func TestFetchRoster(t *testing.T) {
	client := newTestClient(t, serve(map[string]string{
		"/cbb/schools/north-carolina/men/2026.html": rosterHTML,
	}))

	roster, err := client.FetchRoster(context.Background(), "north-carolina")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Caleb Love", roster[0].PlayerID)
	assert.True(t, strings.HasSuffix(roster[0].DetailLink, "/cbb/players/caleb-love-1.html"))
}

func TestFetchRosterEmptyTableFails(t *testing.T) {
	client := newTestClient(t, serve(map[string]string{
		"/cbb/schools/north-carolina/men/2026.html": "<html><body></body></html>",
	}))

	_, err := client.FetchRoster(context.Background(), "north-carolina")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ErrCodeInvalidData, fetchErr.Code)
}

func TestFetchSchedule(t *testing.T) {
	client := newTestClient(t, serve(map[string]string{
		"/cbb/schools/north-carolina/men/2026-schedule.html": scheduleHTML,
	}))

	games, err := client.FetchSchedule(context.Background(), "north-carolina")
	require.NoError(t, err)
	// the TBD row has no parseable date and is dropped
	require.Len(t, games, 2)

	assert.Equal(t, "duke", games[0].Opponent)
	assert.Equal(t, models.VenueHome, games[0].Venue)
	assert.Equal(t, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), games[0].Date)
	assert.True(t, strings.HasSuffix(games[0].DetailLink, "/cbb/boxscores/2026-01-10-north-carolina.html"))

	assert.Equal(t, "virginia", games[1].Opponent)
	assert.Equal(t, models.VenueAway, games[1].Venue)
}

func TestFetchBoxScore(t *testing.T) {
	client := newTestClient(t, serve(map[string]string{
		"/cbb/boxscores/game.html": boxScoreHTML,
	}))

	box, err := client.FetchBoxScore(context.Background(), client.baseURL+"/cbb/boxscores/game.html")
	require.NoError(t, err)
	require.Len(t, box, 2)

	unc := box["north-carolina"]
	require.NotNil(t, unc)
	assert.Equal(t, PlayerLine{Played: true, Points: 24, Minutes: 35, Rebounds: 4, Assists: 3}, unc["Caleb Love"])
	assert.Equal(t, PlayerLine{Played: false}, unc["Bench Guy"])
	assert.NotContains(t, unc, "Reserves")

	duke := box["duke"]
	require.NotNil(t, duke)
	assert.Equal(t, 19, duke["Kyle Filipowski"].Points)
}

func TestFetchBoxScoreSingleTableFails(t *testing.T) {
	oneTable := strings.Replace(boxScoreHTML, `id="box-score-basic-duke"`, `id="other"`, 1)
	client := newTestClient(t, serve(map[string]string{
		"/cbb/boxscores/game.html": oneTable,
	}))

	_, err := client.FetchBoxScore(context.Background(), client.baseURL+"/cbb/boxscores/game.html")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ErrCodeInvalidData, fetchErr.Code)
}

func TestFetchPlayerGameLog(t *testing.T) {
	client := newTestClient(t, serve(map[string]string{
		"/cbb/players/caleb-love-1/gamelog": gameLogHTML,
	}))

	entries, err := client.FetchPlayerGameLog(context.Background(), client.baseURL+"/cbb/players/caleb-love-1.html")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "kentucky", entries[0].Opponent)
	assert.Equal(t, models.VenueAway, entries[0].Venue)
	assert.True(t, entries[0].Played)
	assert.Equal(t, 17, entries[0].Points)

	assert.False(t, entries[1].Played)
	assert.Equal(t, "kansas", entries[1].Opponent)
}

func TestDocumentCaching(t *testing.T) {
	var hits int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(rosterHTML))
	})
	client := newTestClient(t, handler)

	_, err := client.FetchRoster(context.Background(), "north-carolina")
	require.NoError(t, err)
	_, err = client.FetchRoster(context.Background(), "north-carolina")
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "second fetch should hit the page cache")
}

func TestFetchBadStatus(t *testing.T) {
	client := newTestClient(t, serve(nil))

	_, err := client.FetchSchedule(context.Background(), "north-carolina")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, ErrCodeBadStatus, fetchErr.Code)
}

func TestParseGameDateLayouts(t *testing.T) {
	want := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	for _, input := range []string{"2026-01-10", "Sat, Jan 10, 2026", "Jan 10, 2026"} {
		got, err := parseGameDate(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, err := parseGameDate("sometime soon")
	assert.Error(t, err)
}

func TestParseStat(t *testing.T) {
	assert.Equal(t, 24, parseStat("24"))
	assert.Equal(t, 0, parseStat(""))
	assert.Equal(t, 0, parseStat("-3"))
	assert.Equal(t, 0, parseStat("DNP"))
}

func TestParseVenue(t *testing.T) {
	assert.Equal(t, models.VenueAway, parseVenue("@"))
	assert.Equal(t, models.VenueHome, parseVenue(""))
	assert.Equal(t, models.VenueHome, parseVenue("N"))
}

func TestBoxScoreOpponent(t *testing.T) {
	box := BoxScore{
		"unc":  {},
		"duke": {},
	}

	opp, err := box.Opponent("unc")
	require.NoError(t, err)
	assert.Equal(t, "duke", opp)

	opp, err = box.Opponent("duke")
	require.NoError(t, err)
	assert.Equal(t, "unc", opp)

	_, err = box.Opponent("kansas")
	assert.Error(t, err)

	_, err = BoxScore{"unc": {}}.Opponent("unc")
	assert.Error(t, err)
}

func TestFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("dial timeout")
	err := NewFetchError("roster", ErrCodeNetworkError, "request failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "roster")
}
