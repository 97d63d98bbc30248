package models

// BoxScoreInput is the MLB Stats API boxscore payload, reduced to the
// fields needed to read a pitcher's in-game line
type BoxScoreInput struct {
	Teams struct {
		Away BoxScoreTeamInput `json:"away"`
		Home BoxScoreTeamInput `json:"home"`
	} `json:"teams"`
}

// BoxScoreTeamInput holds one roster keyed by "ID<personId>"
type BoxScoreTeamInput struct {
	Team    PersonRef                      `json:"team"`
	Players map[string]BoxScorePlayerInput `json:"players"`
}

// BoxScorePlayerInput is one player's entry in a boxscore roster
type BoxScorePlayerInput struct {
	Person PersonRef `json:"person"`
	Stats  struct {
		Pitching struct {
			StrikeOuts *int `json:"strikeOuts,omitempty"`
		} `json:"pitching"`
	} `json:"stats"`
}

// FindPlayer scans both rosters for a player, matching by id when known
// and by full name otherwise.
func (b *BoxScoreInput) FindPlayer(id int, fullName string) (*BoxScorePlayerInput, bool) {
	for _, side := range []BoxScoreTeamInput{b.Teams.Home, b.Teams.Away} {
		for _, p := range side.Players {
			if id != 0 && p.Person.ID == id {
				return &p, true
			}
			if id == 0 && p.Person.FullName == fullName {
				return &p, true
			}
		}
	}
	return nil, false
}
