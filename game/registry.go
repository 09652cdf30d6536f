package game

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	minTeams = 2
	maxTeams = 5

	minTargetScore     = 5
	maxTargetScore     = 200
	defaultTargetScore = 30

	// Rooms idle longer than this are garbage-collected by the sweeper.
	defaultMaxIdle = 2 * time.Hour

	sweepInterval = time.Minute
)

// CreateConfig is the validated-at-the-boundary shape of a room request.
// Out-of-range values are clamped to sane defaults rather than rejected.
type CreateConfig struct {
	Mode        Mode
	HostName    string
	TeamCount   int
	TargetScore int
	RoundSecs   int
	PackKeys    []string
	TeamNames   map[string]string
}

// Registry is the process-wide room table. It owns code generation (atomic
// with insertion, so two concurrent creates can never share a code), the
// shared tick loop driving every room's timers, and idle-room eviction.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	emit    Emitter
	rec     Recorder
	tickers PeriodicTickerChannelCreator
	log     zerolog.Logger

	now      func() time.Time
	rng      *rand.Rand
	explPick ExplainerPolicy
	maxIdle  time.Duration
}

func NewRegistry(emit Emitter, rec Recorder, tickers PeriodicTickerChannelCreator, log zerolog.Logger) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		emit:    emit,
		rec:     rec,
		tickers: tickers,
		log:     log,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		maxIdle: defaultMaxIdle,
	}
}

// SetExplainerPolicy selects how a round picks its explainer when the caller
// does not name one.
func (g *Registry) SetExplainerPolicy(p ExplainerPolicy) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.explPick = p
}

// Create builds a room from a clamped config, assigns it a collision-free
// code and stores it. The classic host is rostered on the first team; the
// speed host runs the game from outside the roster.
func (g *Registry) Create(cfg CreateConfig) (*Room, error) {
	if cfg.Mode != ModeSpeed {
		cfg.Mode = ModeClassic
	}
	if cfg.HostName == "" {
		cfg.HostName = "Host"
	}
	if cfg.TeamCount < minTeams {
		cfg.TeamCount = minTeams
	}
	if cfg.TeamCount > maxTeams {
		cfg.TeamCount = maxTeams
	}
	if cfg.TargetScore < minTargetScore {
		cfg.TargetScore = defaultTargetScore
	}
	if cfg.TargetScore > maxTargetScore {
		cfg.TargetScore = maxTargetScore
	}
	cfg.RoundSecs = clampRoundSecs(cfg.RoundSecs)

	g.mu.Lock()
	code := generateCode(g.rng)
	for _, taken := g.rooms[code]; taken; _, taken = g.rooms[code] {
		code = generateCode(g.rng)
	}

	now := g.now()
	r := &Room{
		code:         code,
		mode:         cfg.Mode,
		hostID:       "host-" + code,
		targetScore:  cfg.TargetScore,
		packKeys:     cfg.PackKeys,
		teams:        make(map[string]*Team, cfg.TeamCount),
		players:      make(map[string]*Player),
		createdAt:    now,
		lastActivity: now,
		roundSecs:    cfg.RoundSecs,
		emit:         g.emit,
		rec:          g.rec,
		log:          g.log.With().Str("room", code).Logger(),
		now:          g.now,
		rng:          rand.New(rand.NewSource(g.rng.Int63())),
		explPick:     g.explPick,
	}
	for i := 0; i < cfg.TeamCount; i++ {
		id := teamLetters[i]
		name := strings.TrimSpace(cfg.TeamNames[id])
		if name == "" {
			name = "Team " + id
		}
		team := &Team{ID: id, Name: name, foundSet: make(map[string]struct{})}
		if cfg.Mode == ModeSpeed {
			team.Color = teamColors[i]
		}
		r.teams[id] = team
		r.teamOrder = append(r.teamOrder, id)
	}
	r.words = NewWordSource(cfg.PackKeys, r.rng)

	if cfg.Mode == ModeClassic {
		first := r.teamOrder[0]
		r.players[r.hostID] = &Player{
			ClientID:  r.hostID,
			Name:      cfg.HostName,
			TeamID:    first,
			IsHost:    true,
			Connected: true,
		}
		r.teams[first].Members = append(r.teams[first].Members, r.hostID)
	}

	g.rooms[code] = r
	g.mu.Unlock()

	r.log.Info().Str("mode", string(cfg.Mode)).Int("teams", cfg.TeamCount).
		Int("target", cfg.TargetScore).Msg("room created")
	r.record("room_created", func(ctx context.Context) error {
		return g.rec.RoomCreated(ctx, RoomRecord{
			Code:        code,
			Mode:        string(cfg.Mode),
			HostName:    cfg.HostName,
			TargetScore: cfg.TargetScore,
			TeamCount:   cfg.TeamCount,
			PackKeys:    cfg.PackKeys,
			CreatedAt:   now,
		})
	})
	return r, nil
}

// Lookup resolves a code case-insensitively, ignoring surrounding whitespace.
func (g *Registry) Lookup(code string) (*Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Remove drops a room from the table. Idempotent; a removed room simply stops
// receiving ticks, which retires any pending deadline with it.
func (g *Registry) Remove(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, code)
}

// Sweep evicts rooms that ended or have been idle past maxAge, and reports
// how many were dropped.
func (g *Registry) Sweep(maxAge time.Duration) int {
	cutoff := g.now().Add(-maxAge)

	g.mu.Lock()
	rooms := make(map[string]*Room, len(g.rooms))
	for code, r := range g.rooms {
		rooms[code] = r
	}
	g.mu.Unlock()

	var stale []string
	for code, r := range rooms {
		if r.Ended() || r.LastActivity().Before(cutoff) {
			stale = append(stale, code)
		}
	}

	g.mu.Lock()
	for _, code := range stale {
		delete(g.rooms, code)
	}
	g.mu.Unlock()

	if len(stale) > 0 {
		g.log.Info().Strs("rooms", stale).Msg("swept stale rooms")
	}
	return len(stale)
}

// Run drives every live room's timers from a single ticker, so a room's
// deadline logic runs at most once per second and a destroyed round can never
// be hit by a stale timer. Blocks until ctx is cancelled.
func (g *Registry) Run(ctx context.Context) {
	tick := g.tickers.Create(time.Second)
	sweep := g.tickers.Create(sweepInterval)

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick:
			g.tickAll(now)
		case <-sweep:
			g.Sweep(g.maxIdle)
		}
	}
}

func (g *Registry) tickAll(now time.Time) {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	g.mu.Unlock()

	for _, r := range rooms {
		r.Tick(now)
	}
}

// RoomSummary is the admin view of one live room.
type RoomSummary struct {
	Code         string         `json:"code"`
	Mode         Mode           `json:"mode"`
	PlayerCount  int            `json:"playerCount"`
	Connected    int            `json:"connectedCount"`
	Scores       map[string]int `json:"scores"`
	RoundActive  bool           `json:"roundActive"`
	Ended        bool           `json:"ended"`
	CreatedAt    time.Time      `json:"createdAt"`
	LastActivity time.Time      `json:"lastActivity"`
}

// Summaries lists every live room for the admin surface.
func (g *Registry) Summaries() []RoomSummary {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	g.mu.Unlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.summary())
	}
	return out
}

func (r *Room) summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	connected := 0
	for _, p := range r.players {
		if p.Connected {
			connected++
		}
	}
	return RoomSummary{
		Code:         r.code,
		Mode:         r.mode,
		PlayerCount:  len(r.players),
		Connected:    connected,
		Scores:       r.scores(),
		RoundActive:  r.round != nil || r.speedRound != nil,
		Ended:        r.ended,
		CreatedAt:    r.createdAt,
		LastActivity: r.lastActivity,
	}
}
