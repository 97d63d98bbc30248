package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mlb_pitchers/report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTP() *HTTP {
	return NewHTTP(5*time.Second, "test-agent")
}

func TestGet_StatusErrorUnwraps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	}))
	defer srv.Close()

	_, err := newTestHTTP().Get(context.Background(), "test", srv.URL, nil)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "down", se.Body)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestGet_SendsParamsAndUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "07/04/2025", r.URL.Query().Get("date"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := newTestHTTP().Get(context.Background(), "test", srv.URL, map[string][]string{"date": {"07/04/2025"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
}

func TestGetJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	var v map[string]any
	_, err := newTestHTTP().GetJSON(context.Background(), "test", srv.URL, nil, &v)
	assert.ErrorIs(t, err, models.ErrParseAnomaly)
}

func TestGet_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestHTTP().Get(context.Background(), "test", url, nil)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestWithRateLimit_CancelledContext(t *testing.T) {
	h := newTestHTTP().WithRateLimit(0.001, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	// First request spends the burst
	_, err := h.Get(context.Background(), "test", srv.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Get(ctx, "test", srv.URL, nil)
	assert.Error(t, err)
}

func TestFetchPitchingSeasonStats_Flattens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people/42/stats", r.URL.Path)
		assert.Equal(t, "pitching", r.URL.Query().Get("group"))
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		w.Write([]byte(`{"stats":[{"splits":[{"stat":{"strikeOuts":101,"era":"3.21","inningsPitched":"88.1"}}]}]}`))
	}))
	defer srv.Close()

	c := NewMLBStats(newTestHTTP(), srv.URL)
	flat, err := c.FetchPitchingSeasonStats(context.Background(), 42, 2025)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"strikeOuts":     "101",
		"era":            "3.21",
		"inningsPitched": "88.1",
	}, flat)
}

func TestFetchPitchingSeasonStats_NoSplits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stats":[]}`))
	}))
	defer srv.Close()

	flat, err := NewMLBStats(newTestHTTP(), srv.URL).FetchPitchingSeasonStats(context.Background(), 1, 2025)
	require.NoError(t, err)
	assert.Empty(t, flat)
}

func TestFetchSchedule_Params(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule", r.URL.Path)
		assert.Equal(t, "probablePitcher", r.URL.Query().Get("hydrate"))
		assert.Equal(t, "1", r.URL.Query().Get("sportId"))
		w.Write([]byte(`{"dates":[{"date":"2025-07-04","games":[{"gamePk":7}]}]}`))
	}))
	defer srv.Close()

	resp, err := NewMLBStats(newTestHTTP(), srv.URL).FetchSchedule(context.Background(), "07/04/2025")
	require.NoError(t, err)
	require.Len(t, resp.Dates, 1)
	assert.Equal(t, 7, resp.Dates[0].Games[0].GamePK)
}

func TestFetchTeamBatting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0,ts", r.URL.Query().Get("team"))
		w.Write([]byte(`{"data":[{"TeamNameAbb":"NYY","SO":1200,"PA":5000}]}`))
	}))
	defer srv.Close()

	rows, err := NewFanGraphs(newTestHTTP(), srv.URL).FetchTeamBatting(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "NYY", rows[0].TeamNameAbb)
	assert.Equal(t, 1200.0, rows[0].SO)
}

func TestRequestsRemaining(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k1", r.URL.Query().Get("apiKey"))
		w.Header().Set("X-Requests-Remaining", "57")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	n, err := NewOddsAPI(newTestHTTP(), srv.URL).RequestsRemaining(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, 57, n)
}

func TestRequestsRemaining_MissingHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewOddsAPI(newTestHTTP(), srv.URL).RequestsRemaining(context.Background(), "k1")
	assert.ErrorIs(t, err, models.ErrNotAvailable)
}
