package game

import "time"

// Event names pushed through the Emitter. The gateway forwards them verbatim
// as the "event" field of its JSON envelope.
const (
	EventGameUpdated      = "gameUpdated"
	EventRoundStarted     = "roundStarted"
	EventRoundTick        = "roundTick"
	EventScoreUpdated     = "scoreUpdated"
	EventWordForExplainer = "wordForExplainer"
	EventRoundEnded       = "roundEnded"
	EventGameEnded        = "gameEnded"
	EventPlayerRemoved    = "playerRemoved"
	EventWordAccepted     = "wordAccepted"
	EventBoardUpdated     = "boardUpdated"
	EventSpeedRoundEnded  = "speedRoundEnded"
)

type TeamView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Color      string   `json:"color,omitempty"`
	Score      int      `json:"score"`
	Members    []string `json:"members"`
	FoundWords []string `json:"foundWords,omitempty"`
}

type PlayerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TeamID      string `json:"teamId"`
	IsHost      bool   `json:"isHost"`
	IsConnected bool   `json:"isConnected"`
}

type RoundView struct {
	TeamID        string   `json:"teamId"`
	ExplainerID   string   `json:"explainerId,omitempty"`
	RemainingSecs int      `json:"remainingSecs"`
	RoundScore    int      `json:"roundScore"`
	Letters       []string `json:"letters,omitempty"`
}

// GameView is the full room snapshot sent on create/join and on roster
// changes. Teams keep their insertion order (A, B, C, ...).
type GameView struct {
	Code         string       `json:"code"`
	Mode         Mode         `json:"mode"`
	TargetScore  int          `json:"targetScore"`
	Teams        []TeamView   `json:"teams"`
	Players      []PlayerView `json:"players"`
	WordPackKeys []string     `json:"wordPackKeys"`
	Round        *RoundView   `json:"round,omitempty"`
	Ended        bool         `json:"ended"`
}

type RoundStartedPayload struct {
	TeamID      string         `json:"teamId"`
	ExplainerID string         `json:"explainerId,omitempty"`
	RoundSecs   int            `json:"roundTime"`
	Teams       []TeamView     `json:"teams"`
	Scores      map[string]int `json:"scores"`
	TargetScore int            `json:"targetScore"`
	Letters     []string       `json:"letters,omitempty"`
}

type RoundTickPayload struct {
	RemainingSecs int `json:"remainingSecs"`
}

type ScoreUpdatedPayload struct {
	Teams       []TeamView     `json:"teams"`
	Scores      map[string]int `json:"scores"`
	TargetScore int            `json:"targetScore"`
}

type WordPayload struct {
	Word string `json:"word"`
}

type RoundEndedPayload struct {
	TeamID     string         `json:"teamId"`
	Teams      []TeamView     `json:"teams"`
	Scores     map[string]int `json:"scores"`
	RoundScore int            `json:"roundScore"`
	TeamTotal  int            `json:"teamTotal"`
	Reason     RoundEndReason `json:"reason"`
}

type GameEndedPayload struct {
	Teams         []TeamView     `json:"teams"`
	Scores        map[string]int `json:"scores"`
	WinnerTeamIDs []string       `json:"winnerTeamIds"`
}

type BoardUpdatedPayload struct {
	TeamID  string `json:"teamId"`
	Indices []int  `json:"indices"`
}

type LeaderboardEntry struct {
	TeamID      string `json:"teamId"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	UniqueCount int    `json:"score"`
	TotalWords  int    `json:"totalWords"`
}

type SpeedRoundEndedPayload struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Scores      map[string]int     `json:"scores"`
}

// View builds the snapshot under the room lock.
func (r *Room) View() GameView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view()
}

func (r *Room) view() GameView {
	v := GameView{
		Code:         r.code,
		Mode:         r.mode,
		TargetScore:  r.targetScore,
		Teams:        r.teamViews(),
		Players:      make([]PlayerView, 0, len(r.players)),
		WordPackKeys: r.packKeys,
		Ended:        r.ended,
	}
	for _, p := range r.players {
		v.Players = append(v.Players, PlayerView{
			ID:          p.ClientID,
			Name:        p.Name,
			TeamID:      p.TeamID,
			IsHost:      p.IsHost,
			IsConnected: p.Connected,
		})
	}
	if r.round != nil {
		v.Round = &RoundView{
			TeamID:        r.round.TeamID,
			ExplainerID:   r.round.ExplainerID,
			RemainingSecs: r.remainingSecs(r.round.Deadline),
			RoundScore:    r.round.RoundScore,
		}
	}
	if r.speedRound != nil {
		v.Round = &RoundView{
			RemainingSecs: r.remainingSecs(r.speedRound.Deadline),
			Letters:       r.speedRound.Letters,
		}
	}
	return v
}

func (r *Room) teamViews() []TeamView {
	views := make([]TeamView, 0, len(r.teamOrder))
	for _, t := range r.orderedTeams() {
		views = append(views, TeamView{
			ID:         t.ID,
			Name:       t.Name,
			Color:      t.Color,
			Score:      t.Score,
			Members:    append([]string(nil), t.Members...),
			FoundWords: append([]string(nil), t.FoundWords...),
		})
	}
	return views
}

func (r *Room) remainingSecs(deadline time.Time) int {
	return remainingAt(deadline, r.now())
}

func remainingAt(deadline, now time.Time) int {
	remaining := int(deadline.Sub(now).Round(time.Second) / time.Second)
	if remaining < 0 {
		return 0
	}
	return remaining
}
