package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Mode string

const (
	ModeClassic Mode = "classic"
	ModeSpeed   Mode = "speed"
)

// ExplainerPolicy decides which team member explains when the caller does not
// name one.
type ExplainerPolicy int

const (
	ExplainerFirstConnected ExplainerPolicy = iota
	ExplainerRandom
)

var teamLetters = []string{"A", "B", "C", "D", "E"}

// Palette used by the speed variant.
var teamColors = []string{"#3498db", "#e74c3c", "#2ecc71", "#f1c40f", "#9b59b6"}

type Team struct {
	ID      string
	Name    string
	Color   string
	Score   int
	Members []string // client ids, insertion order, no duplicates

	// Speed variant round-local state.
	FoundWords []string
	foundSet   map[string]struct{}
	Board      []int // letter indices currently placed by the team
}

func (t *Team) hasMember(clientID string) bool {
	for _, id := range t.Members {
		if id == clientID {
			return true
		}
	}
	return false
}

func (t *Team) removeMember(clientID string) {
	for i, id := range t.Members {
		if id == clientID {
			t.Members = append(t.Members[:i], t.Members[i+1:]...)
			return
		}
	}
}

type Player struct {
	ClientID  string
	Name      string
	TeamID    string
	IsHost    bool
	Connected bool
}

type RoundEndReason string

const (
	ReasonManual             RoundEndReason = "manual"
	ReasonTimer              RoundEndReason = "timer"
	ReasonPlayerDisconnected RoundEndReason = "player_disconnected"
)

// Round is the single active-round slot of a classic room. A nil round means
// the room is idle; End destroys the round after emitting its summary.
type Round struct {
	TeamID      string
	ExplainerID string
	Deadline    time.Time
	RoundScore  int
	CurrentWord string
	lastTicked  int // remaining seconds at the previous tick, to dedupe roundTick
}

// SpeedRound is the shared-board race round. Every team plays simultaneously
// against the same letters until the deadline.
type SpeedRound struct {
	Letters    []string
	Deadline   time.Time
	lastTicked int
}

// Room is the unit of isolation: one play session, its roster, its word pool
// and its at-most-one active round. All operations lock the room mutex, so two
// events for the same room never interleave.
type Room struct {
	mu sync.Mutex

	code        string
	mode        Mode
	hostID      string
	targetScore int
	packKeys    []string

	teams     map[string]*Team
	teamOrder []string
	players   map[string]*Player

	round      *Round
	speedRound *SpeedRound
	words      *WordSource

	ended        bool
	createdAt    time.Time
	lastActivity time.Time

	roundSecs int // default round duration for this room

	emit     Emitter
	rec      Recorder
	log      zerolog.Logger
	now      func() time.Time
	rng      *rand.Rand
	explPick ExplainerPolicy
}

func (r *Room) Code() string { return r.code }
func (r *Room) Mode() Mode   { return r.mode }

func (r *Room) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

// touch must be called with the room lock held.
func (r *Room) touch() {
	r.lastActivity = r.now()
}

func (r *Room) orderedTeams() []*Team {
	teams := make([]*Team, 0, len(r.teamOrder))
	for _, id := range r.teamOrder {
		teams = append(teams, r.teams[id])
	}
	return teams
}

func (r *Room) scores() map[string]int {
	s := make(map[string]int, len(r.teams))
	for id, t := range r.teams {
		s[id] = t.Score
	}
	return s
}

// winnerTeamIDs returns every team holding the current top score.
func (r *Room) winnerTeamIDs() []string {
	max := -1
	for _, t := range r.teams {
		if t.Score > max {
			max = t.Score
		}
	}
	var winners []string
	for _, id := range r.teamOrder {
		if r.teams[id].Score == max {
			winners = append(winners, id)
		}
	}
	return winners
}
