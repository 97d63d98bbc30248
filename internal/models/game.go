package models

// GameStatus is the detailed game state reported by the schedule source
type GameStatus string

const (
	StatusPreGame    GameStatus = "Pre-Game"
	StatusScheduled  GameStatus = "Scheduled"
	StatusWarmup     GameStatus = "Warmup"
	StatusInProgress GameStatus = "In Progress"
	StatusFinal      GameStatus = "Final"
)

// Reportable reports whether games in this state belong on the report.
// Postponed, suspended and delayed games are dropped.
func (s GameStatus) Reportable() bool {
	switch s {
	case StatusPreGame, StatusScheduled, StatusWarmup, StatusInProgress, StatusFinal:
		return true
	}
	return false
}

// Started reports whether first pitch has been thrown
func (s GameStatus) Started() bool {
	return s == StatusInProgress || s == StatusFinal
}

// Game represents one MLB game on a date's slate
type Game struct {
	GamePK       int
	Date         string
	Status       GameStatus
	AwayTeam     string
	HomeTeam     string
	AwayProbable *ProbablePitcher
	HomeProbable *ProbablePitcher
}

// ProbablePitcher is the announced starter for one side of a game
type ProbablePitcher struct {
	ID       int
	FullName string
}

// PitcherTask is one unit of work for the season stats fan-out
type PitcherTask struct {
	PitcherID   int
	PitcherName string
	Team        string
	Opponent    string
	Status      GameStatus
	GamePK      int
}

// PitcherTasks returns zero, one or two tasks, one per side with a named
// probable pitcher. The away side comes first.
func (g *Game) PitcherTasks() []PitcherTask {
	var tasks []PitcherTask
	if g.AwayProbable != nil && g.AwayProbable.FullName != "" {
		tasks = append(tasks, PitcherTask{
			PitcherID:   g.AwayProbable.ID,
			PitcherName: g.AwayProbable.FullName,
			Team:        g.AwayTeam,
			Opponent:    g.HomeTeam,
			Status:      g.Status,
			GamePK:      g.GamePK,
		})
	}
	if g.HomeProbable != nil && g.HomeProbable.FullName != "" {
		tasks = append(tasks, PitcherTask{
			PitcherID:   g.HomeProbable.ID,
			PitcherName: g.HomeProbable.FullName,
			Team:        g.HomeTeam,
			Opponent:    g.AwayTeam,
			Status:      g.Status,
			GamePK:      g.GamePK,
		})
	}
	return tasks
}

// ScheduleResponse is the MLB Stats API schedule payload
type ScheduleResponse struct {
	Dates []ScheduleDateInput `json:"dates"`
}

// ScheduleDateInput groups the games of one calendar date
type ScheduleDateInput struct {
	Date  string      `json:"date"`
	Games []GameInput `json:"games"`
}

// GameInput is a single game as returned by the schedule endpoint
type GameInput struct {
	GamePK       int    `json:"gamePk"`
	OfficialDate string `json:"officialDate"`
	Status       struct {
		AbstractGameState string `json:"abstractGameState"`
		DetailedState     string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Away TeamSideInput `json:"away"`
		Home TeamSideInput `json:"home"`
	} `json:"teams"`
}

// TeamSideInput is one side (home or away) of a scheduled game
type TeamSideInput struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	ProbablePitcher *PersonRef `json:"probablePitcher,omitempty"`
}

// PersonRef is the minimal person reference embedded in many payloads
type PersonRef struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
}

// ToGame converts GameInput (from API) to Game model
func (gi *GameInput) ToGame(date string) *Game {
	game := &Game{
		GamePK:   gi.GamePK,
		Date:     date,
		Status:   GameStatus(gi.Status.DetailedState),
		AwayTeam: gi.Teams.Away.Team.Name,
		HomeTeam: gi.Teams.Home.Team.Name,
	}

	if p := gi.Teams.Away.ProbablePitcher; p != nil {
		game.AwayProbable = &ProbablePitcher{ID: p.ID, FullName: p.FullName}
	}
	if p := gi.Teams.Home.ProbablePitcher; p != nil {
		game.HomeProbable = &ProbablePitcher{ID: p.ID, FullName: p.FullName}
	}

	return game
}
