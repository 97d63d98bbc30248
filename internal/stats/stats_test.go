package stats

import (
	"context"
	"errors"
	"testing"

	"mlb_pitchers/report/internal/models"
	"mlb_pitchers/report/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	players      []models.PersonInput
	playersCalls int
	stats        map[int]map[string]string
	box          map[int]*models.BoxScoreInput
	boxCalls     int
}

func (f *fakeSource) FetchPlayers(context.Context, int) ([]models.PersonInput, error) {
	f.playersCalls++
	return f.players, nil
}

func (f *fakeSource) FetchPitchingSeasonStats(_ context.Context, id, _ int) (map[string]string, error) {
	data, ok := f.stats[id]
	if !ok {
		return nil, models.ErrUpstreamUnavailable
	}
	return data, nil
}

func (f *fakeSource) FetchBoxScore(_ context.Context, pk int) (*models.BoxScoreInput, error) {
	f.boxCalls++
	b, ok := f.box[pk]
	if !ok {
		return nil, models.ErrUpstreamUnavailable
	}
	return b, nil
}

type memStore struct {
	saved map[int]int
}

func (m *memStore) GetFinal(_ context.Context, gamePK, _ int) (int, bool, error) {
	k, ok := m.saved[gamePK]
	return k, ok, nil
}

func (m *memStore) SaveFinal(_ context.Context, gamePK, _ int, _ string, k int) error {
	m.saved[gamePK] = k
	return nil
}

func person(id int, name, pos string) models.PersonInput {
	p := models.PersonInput{ID: id, FullName: name}
	p.PrimaryPosition.Abbreviation = pos
	return p
}

func intPtr(n int) *int { return &n }

func boxWith(id int, name string, k *int) *models.BoxScoreInput {
	var b models.BoxScoreInput
	var p models.BoxScorePlayerInput
	p.Person = models.PersonRef{ID: id, FullName: name}
	p.Stats.Pitching.StrikeOuts = k
	b.Teams.Away.Players = map[string]models.BoxScorePlayerInput{}
	b.Teams.Home.Players = map[string]models.BoxScorePlayerInput{"ID1": p}
	return &b
}

func TestParseStatBlock(t *testing.T) {
	raw := `
Jane Doe, P (2025)

Season Pitching
gamesPlayed: 20
atBats: 400
avg: .250
strikeoutsPer9Inn: 10.80
`
	data := ParseStatBlock(raw)
	assert.Equal(t, map[string]string{
		"gamesPlayed":       "20",
		"atBats":            "400",
		"avg":               ".250",
		"strikeoutsPer9Inn": "10.80",
	}, data)

	assert.Empty(t, ParseStatBlock("header\nonly"))
}

func TestProject_PartialDataIsPreserved(t *testing.T) {
	line := Project(map[string]string{
		"gamesPlayed": "20",
		"atBats":      "400",
		"strikeOuts":  "120",
		"avg":         ".250",
		"era":         "3.10",
	})

	assert.Equal(t, int32(20), line.GamesPlayed.Int32)
	assert.True(t, line.AtBats.Valid)
	assert.Equal(t, int32(120), line.Strikeouts.Int32)
	assert.Equal(t, ".250", line.Avg.String)
	assert.False(t, line.Walks.Valid, "missing field yields null")
	assert.False(t, line.StrikeoutsPer9.Valid)

	bad := Project(map[string]string{"atBats": "-.--"})
	assert.False(t, bad.AtBats.Valid, "unparsable field yields null")
}

func TestResolvePlayer(t *testing.T) {
	src := &fakeSource{players: []models.PersonInput{
		person(1, "José Berríos", "P"),
		person(2, "Will Smith", "C"),
		person(3, "Will Smith", "P"),
		person(4, "Luis Garcia", "P"),
		person(5, "Luis Garcia", "P"),
	}}
	a := New(src, 2025, nil)
	ctx := context.Background()

	p, err := a.ResolvePlayer(ctx, "Jose Berrios")
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)

	p, err = a.ResolvePlayer(ctx, "Will Smith")
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID, "the pitcher wins a name collision")

	_, err = a.ResolvePlayer(ctx, "Luis Garcia")
	assert.True(t, errors.Is(err, models.ErrNotFound), "ambiguous names fail")

	_, err = a.ResolvePlayer(ctx, "Nobody Here")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	assert.Equal(t, 1, src.playersCalls, "player list is fetched once")
}

func TestLookupPitcherSeasonStats(t *testing.T) {
	src := &fakeSource{
		players: []models.PersonInput{person(7, "Jane Doe", "P")},
		stats: map[int]map[string]string{
			7: {"gamesPlayed": "20", "atBats": "400", "strikeOuts": "120", "avg": ".250"},
		},
	}
	a := New(src, 2025, nil)

	line, err := a.LookupPitcherSeasonStats(context.Background(), "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, int32(400), line.AtBats.Int32)

	_, err = a.LookupPitcherSeasonStats(context.Background(), "John Doe")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func slate(status models.GameStatus) schedule.Snapshot {
	return schedule.Snapshot{{
		GamePK:       99,
		Date:         "07/04/2025",
		Status:       status,
		AwayTeam:     "X",
		HomeTeam:     "Y",
		HomeProbable: &models.ProbablePitcher{ID: 1, FullName: "Jane Doe"},
	}}
}

func TestFetchLiveStrikeouts_NotStarted(t *testing.T) {
	src := &fakeSource{box: map[int]*models.BoxScoreInput{99: boxWith(1, "Jane Doe", intPtr(5))}}
	a := New(src, 2025, nil)

	for _, status := range []models.GameStatus{models.StatusScheduled, models.StatusPreGame, models.StatusWarmup} {
		_, err := a.FetchLiveStrikeouts(context.Background(), slate(status), "07/04/2025", "Jane Doe")
		assert.ErrorIs(t, err, models.ErrNotAvailable, string(status))
	}
	assert.Zero(t, src.boxCalls, "no boxscore fetch before first pitch")
}

func TestFetchLiveStrikeouts_InProgress(t *testing.T) {
	src := &fakeSource{box: map[int]*models.BoxScoreInput{99: boxWith(1, "Jane Doe", intPtr(6))}}
	store := &memStore{saved: map[int]int{}}
	a := New(src, 2025, store)

	k, err := a.FetchLiveStrikeouts(context.Background(), slate(models.StatusInProgress), "07/04/2025", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, 6, k)
	assert.Empty(t, store.saved, "live totals are never stored")
}

func TestFetchLiveStrikeouts_FinalUsesStore(t *testing.T) {
	src := &fakeSource{box: map[int]*models.BoxScoreInput{99: boxWith(1, "Jane Doe", intPtr(9))}}
	store := &memStore{saved: map[int]int{}}
	a := New(src, 2025, store)
	ctx := context.Background()

	k, err := a.FetchLiveStrikeouts(ctx, slate(models.StatusFinal), "07/04/2025", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, 9, k)
	assert.Equal(t, 9, store.saved[99])

	k, err = a.FetchLiveStrikeouts(ctx, slate(models.StatusFinal), "07/04/2025", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, 9, k)
	assert.Equal(t, 1, src.boxCalls, "second read is served from the store")
}

func TestFetchLiveStrikeouts_MissingFromBoxscore(t *testing.T) {
	src := &fakeSource{box: map[int]*models.BoxScoreInput{99: boxWith(2, "Someone Else", intPtr(3))}}
	a := New(src, 2025, nil)

	_, err := a.FetchLiveStrikeouts(context.Background(), slate(models.StatusInProgress), "07/04/2025", "Jane Doe")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
