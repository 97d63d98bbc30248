package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"mlb_pitchers/report/internal/models"
	"mlb_pitchers/report/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSchedule struct {
	games []*models.Game
	err   error
}

func (f fakeSchedule) GamesForDate(context.Context, string) ([]*models.Game, error) {
	return f.games, f.err
}

type fakeStats struct {
	lines map[string]models.StatLine
	live  map[string]int
}

func (f fakeStats) LookupPitcherSeasonStats(_ context.Context, name string) (models.StatLine, error) {
	line, ok := f.lines[name]
	if !ok {
		return models.StatLine{}, models.ErrNotFound
	}
	return line, nil
}

func (f fakeStats) FetchLiveStrikeouts(ctx context.Context, games schedule.GameFinder, date, name string) (int, error) {
	game, _, err := games.FindByPitcher(ctx, date, name)
	if err != nil {
		return 0, err
	}
	if !game.Status.Started() {
		return 0, models.ErrNotAvailable
	}
	return f.live[name], nil
}

type fakeTeams struct {
	profiles []models.TeamBattingProfile
	err      error
}

func (f fakeTeams) TeamProfiles(context.Context, int) ([]models.TeamBattingProfile, error) {
	return f.profiles, f.err
}

type fakeMatchups struct {
	ctxs map[string]models.MatchupContext
	err  error
}

func (f fakeMatchups) FetchMatchupContext(context.Context, string) (map[string]models.MatchupContext, error) {
	return f.ctxs, f.err
}

type fakeOdds struct {
	mu    sync.Mutex
	rows  map[string]map[string]string
	asked []string
}

func (f *fakeOdds) PitcherOdds(_ context.Context, _, _, pitcher string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, pitcher)
	row, ok := f.rows[pitcher]
	if !ok {
		return nil, models.ErrNotFound
	}
	return row, nil
}

func line(gp, ab, bb, k int32) models.StatLine {
	return models.StatLine{
		GamesPlayed: sql.NullInt32{Int32: gp, Valid: true},
		AtBats:      sql.NullInt32{Int32: ab, Valid: true},
		Walks:       sql.NullInt32{Int32: bb, Valid: true},
		Strikeouts:  sql.NullInt32{Int32: k, Valid: true},
	}
}

func game(pk int, status models.GameStatus, away, home, awayP, homeP string) *models.Game {
	g := &models.Game{GamePK: pk, Date: "07/04/2025", Status: status, AwayTeam: away, HomeTeam: home}
	if awayP != "" {
		g.AwayProbable = &models.ProbablePitcher{ID: pk*10 + 1, FullName: awayP}
	}
	if homeP != "" {
		g.HomeProbable = &models.ProbablePitcher{ID: pk*10 + 2, FullName: homeP}
	}
	return g
}

func TestRun_EndToEnd(t *testing.T) {
	p := New(Deps{
		Schedule: fakeSchedule{games: []*models.Game{
			game(1, models.StatusScheduled, "X", "Y", "Jane Doe", ""),
		}},
		Stats: fakeStats{lines: map[string]models.StatLine{
			"Jane Doe": {
				GamesPlayed: sql.NullInt32{Int32: 20, Valid: true},
				AtBats:      sql.NullInt32{Int32: 400, Valid: true},
				Strikeouts:  sql.NullInt32{Int32: 120, Valid: true},
				Avg:         sql.NullString{String: ".250", Valid: true},
			},
		}},
		Teams: fakeTeams{profiles: []models.TeamBattingProfile{{Team: "Y", StrikeoutRate: 28.0}}},
		Matchups: fakeMatchups{ctxs: map[string]models.MatchupContext{
			"Jane Doe": {Pitcher: "Jane Doe", Hand: "R", PlateAppearances: 22, StrikeoutPct: 31.0},
		}},
	}, Options{Season: 2025, Workers: 4})

	report, err := p.Run(context.Background(), "07/04/2025", false)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.RunID)

	r := report.Rows[0]
	assert.Equal(t, "Jane Doe", r.Name)
	assert.Equal(t, "X", r.Team)
	assert.Equal(t, "Y", r.Opponent)
	assert.InDelta(t, 20.0, r.ABPerGP.Float64, 1e-9)
	assert.Equal(t, "R", r.Hand.String)
	assert.Equal(t, 28.0, r.OpponentSORate.Float64)
	assert.Equal(t, int32(1), r.Rank.Int32)
	assert.False(t, r.LiveStrikeouts.Valid, "game has not started")
	assert.False(t, r.KPerPA.Valid, "walks are missing")
	assert.True(t, r.Notable())
}

func TestRun_ErrorRowsAreExcluded(t *testing.T) {
	p := New(Deps{
		Schedule: fakeSchedule{games: []*models.Game{
			game(1, models.StatusScheduled, "X", "Y", "Jane Doe", "Ghost Pitcher"),
		}},
		Stats:    fakeStats{lines: map[string]models.StatLine{"Jane Doe": line(20, 400, 20, 120)}},
		Teams:    fakeTeams{profiles: []models.TeamBattingProfile{{Team: "X", StrikeoutRate: 22}, {Team: "Y", StrikeoutRate: 28}}},
		Matchups: fakeMatchups{},
	}, Options{Workers: 2})

	report, err := p.Run(context.Background(), "07/04/2025", false)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	require.Len(t, report.Errors, 1)

	e := report.Errors[0]
	assert.Equal(t, "Ghost Pitcher", e.Name)
	assert.Equal(t, "Y", e.Team)
	assert.Equal(t, "X", e.Opponent)
	assert.Contains(t, e.Error, "not found")
	assert.False(t, e.Rank.Valid)
}

func TestRun_OddsSkippedForStartedGames(t *testing.T) {
	src := &fakeOdds{rows: map[string]map[string]string{
		"Early": {"FanDuel": "5.5: +100|-120"},
		"Final": {"FanDuel": "6.5: +100|-120"},
		"Live":  {"FanDuel": "4.5: +100|-120"},
		"Later": {"Caesars": "7.5: +100|-120", "Fliff": "7.5: +105|-125"},
	}}
	p := New(Deps{
		Schedule: fakeSchedule{games: []*models.Game{
			game(1, models.StatusFinal, "A", "B", "Final", ""),
			game(2, models.StatusInProgress, "C", "D", "Live", ""),
			game(3, models.StatusScheduled, "E", "F", "Early", "Later"),
		}},
		Stats: fakeStats{
			lines: map[string]models.StatLine{
				"Final": line(10, 200, 10, 50),
				"Live":  line(10, 200, 10, 60),
				"Early": line(10, 200, 10, 40),
				"Later": line(10, 200, 10, 30),
			},
			live: map[string]int{"Final": 9, "Live": 4},
		},
		Teams:    fakeTeams{},
		Matchups: fakeMatchups{},
		Odds: func(context.Context) (OddsSource, error) {
			return src, nil
		},
	}, Options{Workers: 3, BookColumns: []string{"FanDuel", "Caesars"}})

	report, err := p.Run(context.Background(), "07/04/2025", true)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Early", "Later"}, src.asked)
	for _, r := range report.Rows {
		if r.Status.Started() {
			assert.Nil(t, r.Odds, r.Name)
		}
	}
	assert.Equal(t, []string{"FanDuel", "Caesars", "Fliff"}, report.BookColumns)

	names := make([]string, len(report.Rows))
	for i, r := range report.Rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Final", "Live", "Early", "Later"}, names)
	assert.Equal(t, int32(9), report.Rows[0].LiveStrikeouts.Int32)
}

func TestRun_QuotaExhaustedSkipsOdds(t *testing.T) {
	p := New(Deps{
		Schedule: fakeSchedule{games: []*models.Game{game(1, models.StatusScheduled, "X", "Y", "Jane Doe", "")}},
		Stats:    fakeStats{lines: map[string]models.StatLine{"Jane Doe": line(20, 400, 20, 120)}},
		Teams:    fakeTeams{err: models.ErrUpstreamUnavailable},
		Matchups: fakeMatchups{ctxs: map[string]models.MatchupContext{}, err: models.ErrUpstreamUnavailable},
		Odds: func(context.Context) (OddsSource, error) {
			return nil, models.ErrQuotaExhausted
		},
	}, Options{Workers: 1})

	report, err := p.Run(context.Background(), "07/04/2025", true)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	r := report.Rows[0]
	assert.Nil(t, r.Odds)
	assert.Empty(t, report.BookColumns)
	assert.False(t, r.OpponentSORate.Valid)
	assert.False(t, r.Rank.Valid)
	assert.False(t, r.Hand.Valid)
	assert.InDelta(t, 28.571, r.KPerPA.Float64, 1e-3)
}

func TestRun_NoSchedule(t *testing.T) {
	p := New(Deps{
		Schedule: fakeSchedule{err: models.ErrUpstreamUnavailable},
	}, Options{})

	report, err := p.Run(context.Background(), "07/04/2025", false)
	assert.True(t, errors.Is(err, models.ErrUpstreamUnavailable))
	require.NotNil(t, report)
	assert.True(t, report.Empty())
}

func TestRun_FoldedMatchupJoin(t *testing.T) {
	p := New(Deps{
		Schedule: fakeSchedule{games: []*models.Game{game(1, models.StatusScheduled, "X", "Y", "José Berríos", "")}},
		Stats:    fakeStats{lines: map[string]models.StatLine{"José Berríos": line(20, 400, 20, 120)}},
		Teams:    fakeTeams{},
		Matchups: fakeMatchups{ctxs: map[string]models.MatchupContext{
			"Jose Berrios": {Pitcher: "Jose Berrios", Hand: "R", PlateAppearances: 12, StrikeoutPct: 20},
		}},
	}, Options{})

	report, err := p.Run(context.Background(), "07/04/2025", false)
	require.NoError(t, err)
	assert.Equal(t, int32(12), report.Rows[0].PlateAppearances.Int32)
}

func TestRun_Idempotent(t *testing.T) {
	deps := Deps{
		Schedule: fakeSchedule{games: []*models.Game{
			game(1, models.StatusFinal, "A", "B", "Alpha", "Bravo"),
			game(2, models.StatusFinal, "C", "D", "Charlie", "Delta"),
		}},
		Stats: fakeStats{
			lines: map[string]models.StatLine{
				"Alpha":   line(10, 200, 10, 50),
				"Bravo":   line(10, 200, 10, 50),
				"Charlie": line(10, 200, 10, 70),
				"Delta":   line(10, 200, 10, 30),
			},
			live: map[string]int{"Alpha": 5, "Bravo": 5, "Charlie": 5, "Delta": 8},
		},
		Teams: fakeTeams{profiles: []models.TeamBattingProfile{
			{Team: "A", StrikeoutRate: 24}, {Team: "B", StrikeoutRate: 24}, {Team: "C", StrikeoutRate: 21}, {Team: "D", StrikeoutRate: 26},
		}},
		Matchups: fakeMatchups{},
	}

	order := func() []string {
		report, err := New(deps, Options{Workers: 4}).Run(context.Background(), "07/04/2025", false)
		require.NoError(t, err)
		var out []string
		for _, r := range report.Rows {
			out = append(out, r.Name)
		}
		return out
	}

	first := order()
	assert.Equal(t, []string{"Delta", "Charlie", "Alpha", "Bravo"}, first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, order())
	}
}

func TestRankByRate(t *testing.T) {
	rate := func(v float64) *models.PitcherRecord {
		return &models.PitcherRecord{OpponentSORate: sql.NullFloat64{Float64: v, Valid: true}}
	}
	rows := []*models.PitcherRecord{rate(25), rate(30), rate(20), rate(25), {}}

	RankByRate(rows)

	got := make([]int32, 0, 4)
	for _, r := range rows[:4] {
		got = append(got, r.Rank.Int32)
	}
	assert.Equal(t, []int32{2, 1, 4, 2}, got)
	assert.False(t, rows[4].Rank.Valid)
}

func TestSortRows_NullsLast(t *testing.T) {
	rows := []*models.PitcherRecord{
		{Name: "NoData"},
		{Name: "Efficient", KPerPA: sql.NullFloat64{Float64: 30, Valid: true}},
		{Name: "Live", LiveStrikeouts: sql.NullInt32{Int32: 0, Valid: true}},
		{Name: "Zed", KPerPA: sql.NullFloat64{Float64: 22, Valid: true}},
		{Name: "Abe", KPerPA: sql.NullFloat64{Float64: 22, Valid: true}},
	}
	SortRows(rows)

	var got []string
	for _, r := range rows {
		got = append(got, r.Name)
	}
	assert.Equal(t, []string{"Live", "Efficient", "Abe", "Zed", "NoData"}, got)
}
