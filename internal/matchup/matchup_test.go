package matchup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mlb_pitchers/report/internal/client"
	"mlb_pitchers/report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div class="mod">
  <div class="col">
    <div class="player-info">
      <h3><a href="/p/1">Jane Doe</a></h3>
      <span class="throws">Throws: Right</span>
    </div>
    <p class="probable-stats">
      <table class="pitcher-stats">
        <tr><th>PA</th><th>K%</th></tr>
        <tr><td>22</td><td>31.0%</td></tr>
      </table>
    </p>
  </div>
  <div class="col">
    <div class="player-info">
      <h3><a href="/p/2">Sam Lefty</a></h3>
      <span class="throws">Throws: Left</span>
    </div>
  </div>
</div>
<div class="mod">
  <div class="col"><p>Probable pitcher TBD</p></div>
  <div class="col">
    <div class="player-info">
      <h3><a href="/p/1">Jane Doe</a></h3>
      <span class="throws">Throws: Left</span>
    </div>
  </div>
  <div class="col">
    <div class="player-info">
      <h3><a href="/p/3">Bad Numbers</a></h3>
      <span class="throws">Throws: Right</span>
    </div>
    <p class="probable-stats">
      <table class="pitcher-stats">
        <tr><th>PA</th><th>K%</th></tr>
        <tr><td>--</td><td>--</td></tr>
      </table>
    </p>
  </div>
</div>
</body></html>`

func TestParse(t *testing.T) {
	list, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, list, 5)

	assert.Equal(t, models.MatchupContext{Pitcher: "Jane Doe", Hand: "R", PlateAppearances: 22, StrikeoutPct: 31.0}, list[0])
	assert.Equal(t, models.MatchupContext{Pitcher: "Sam Lefty", Hand: "L"}, list[1], "no stats table means zeros")
	assert.Equal(t, models.PlaceholderMatchup(), list[2])
	assert.Equal(t, models.PlaceholderMatchup(), list[4], "unparsable stats give a placeholder")
}

func TestIndex_FirstWins(t *testing.T) {
	list, err := Parse(strings.NewReader(page))
	require.NoError(t, err)

	idx := Index(list)
	assert.Len(t, idx, 3)
	assert.Equal(t, "R", idx["Jane Doe"].Hand)
	assert.Contains(t, idx, "TBD")
}

func newScraper(t *testing.T, handler http.HandlerFunc) *Scraper {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/probable-pitchers", r.URL.Path)
		assert.Equal(t, "2025-07-04", r.URL.Query().Get("date"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	h := client.NewHTTP(5*time.Second, "test")
	return NewScraper(NewHTTPFetcher(h), srv.URL+"/probable-pitchers")
}

func TestFetchMatchupContext(t *testing.T) {
	s := newScraper(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	})

	idx, err := s.FetchMatchupContext(context.Background(), "07/04/2025")
	require.NoError(t, err)
	assert.Equal(t, 22, idx["Jane Doe"].PlateAppearances)
}

func TestFetchMatchupContext_Non200(t *testing.T) {
	s := newScraper(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	idx, err := s.FetchMatchupContext(context.Background(), "07/04/2025")
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	assert.NotNil(t, idx)
	assert.Empty(t, idx)
}
