package game

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(emit Emitter, clock *fakeClock) *Registry {
	g := NewRegistry(emit, NopRecorder{}, NewTickerGen(), zerolog.Nop())
	g.rng = rand.New(rand.NewSource(7))
	if clock != nil {
		g.now = clock.Now
	}
	return g
}

func TestCreate_UniqueCodes(t *testing.T) {
	t.Parallel()
	g := newTestRegistry(&fakeEmitter{}, nil)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		room, err := g.Create(CreateConfig{HostName: "moshe", TeamCount: 2})
		require.NoError(t, err)

		code := room.Code()
		assert.Len(t, code, 4)
		assert.False(t, seen[code], "code %q issued twice", code)
		seen[code] = true
		for _, ch := range code {
			assert.Contains(t, codeAlphabet, string(ch))
		}
	}
}

func TestCreate_ClampsConfig(t *testing.T) {
	t.Parallel()
	g := newTestRegistry(&fakeEmitter{}, nil)

	testCases := []struct {
		desc          string
		cfg           CreateConfig
		expectedTeams int
		expectedGoal  int
		expectedSecs  int
	}{
		{
			desc:          "defaults",
			cfg:           CreateConfig{},
			expectedTeams: 2,
			expectedGoal:  30,
			expectedSecs:  60,
		},
		{
			desc:          "too many teams, goal and duration over the cap",
			cfg:           CreateConfig{TeamCount: 9, TargetScore: 999, RoundSecs: 999},
			expectedTeams: 5,
			expectedGoal:  200,
			expectedSecs:  240,
		},
		{
			desc:          "everything under the floor",
			cfg:           CreateConfig{TeamCount: 1, TargetScore: 1, RoundSecs: 5},
			expectedTeams: 2,
			expectedGoal:  30,
			expectedSecs:  60,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			room, err := g.Create(tc.cfg)
			require.NoError(t, err)
			assert.Len(t, room.teamOrder, tc.expectedTeams)
			assert.Equal(t, tc.expectedGoal, room.targetScore)
			assert.Equal(t, tc.expectedSecs, room.roundSecs)
		})
	}
}

func TestCreate_TeamsInLetterOrder(t *testing.T) {
	t.Parallel()
	g := newTestRegistry(&fakeEmitter{}, nil)

	room, err := g.Create(CreateConfig{TeamCount: 4, TeamNames: map[string]string{"B": "The Blues"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, room.teamOrder)
	assert.Equal(t, "Team A", room.teams["A"].Name)
	assert.Equal(t, "The Blues", room.teams["B"].Name)
}

func TestCreate_ClassicHostIsRostered(t *testing.T) {
	t.Parallel()
	g := newTestRegistry(&fakeEmitter{}, nil)

	room, err := g.Create(CreateConfig{HostName: "moshe"})
	require.NoError(t, err)

	host, ok := room.players[room.HostID()]
	require.True(t, ok)
	assert.True(t, host.IsHost)
	assert.Equal(t, "A", host.TeamID)
	assert.Contains(t, room.teams["A"].Members, room.HostID())
}

func TestCreate_SpeedHostIsNotRostered(t *testing.T) {
	t.Parallel()
	g := newTestRegistry(&fakeEmitter{}, nil)

	room, err := g.Create(CreateConfig{Mode: ModeSpeed, HostName: "moshe"})
	require.NoError(t, err)

	assert.Empty(t, room.players)
	assert.NotEmpty(t, room.teams["A"].Color)
}

func TestLookup_CaseInsensitiveAndTrimmed(t *testing.T) {
	t.Parallel()
	g := newTestRegistry(&fakeEmitter{}, nil)

	room, err := g.Create(CreateConfig{})
	require.NoError(t, err)

	found, err := g.Lookup("  " + strings.ToLower(room.Code()) + " ")
	require.NoError(t, err)
	assert.Same(t, room, found)

	_, err = g.Lookup("ZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemove_Idempotent(t *testing.T) {
	t.Parallel()
	g := newTestRegistry(&fakeEmitter{}, nil)

	room, err := g.Create(CreateConfig{})
	require.NoError(t, err)

	g.Remove(room.Code())
	g.Remove(room.Code())

	_, err = g.Lookup(room.Code())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestSweep(t *testing.T) {
	t.Parallel()
	clock := newFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	g := newTestRegistry(&fakeEmitter{}, clock)

	stale, err := g.Create(CreateConfig{})
	require.NoError(t, err)
	done, err := g.Create(CreateConfig{HostName: "moshe"})
	require.NoError(t, err)

	clock.Advance(3 * time.Hour)
	fresh, err := g.Create(CreateConfig{})
	require.NoError(t, err)
	require.NoError(t, done.EndGame(done.HostID()))

	removed := g.Sweep(2 * time.Hour)
	assert.Equal(t, 2, removed)

	_, err = g.Lookup(stale.Code())
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = g.Lookup(done.Code())
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = g.Lookup(fresh.Code())
	assert.NoError(t, err)
}

func TestRun_TickerDrivesRoundTimeout(t *testing.T) {
	t.Parallel()
	emit := &fakeEmitter{}
	clock := newFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	tick := make(chan time.Time)
	sweep := make(chan time.Time)
	tickers := &MockPeriodicTickerChannelCreator{}
	tickers.On("Create", time.Second).Return(tick)
	tickers.On("Create", sweepInterval).Return(sweep)

	g := NewRegistry(emit, NopRecorder{}, tickers, zerolog.Nop())
	g.rng = rand.New(rand.NewSource(7))
	g.now = clock.Now

	room, err := g.Create(CreateConfig{HostName: "moshe"})
	require.NoError(t, err)
	require.NoError(t, room.StartRound("A", 30, ""))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.Run(ctx)

	clock.Advance(10 * time.Second)
	tick <- clock.Now()

	assert.Eventually(t, func() bool {
		_, ok := emit.lastOf(EventRoundTick)
		return ok
	}, time.Second, 5*time.Millisecond)

	clock.Advance(30 * time.Second)
	tick <- clock.Now()

	assert.Eventually(t, func() bool {
		_, ok := emit.lastOf(EventRoundEnded)
		return ok
	}, time.Second, 5*time.Millisecond)

	room.mu.Lock()
	assert.Nil(t, room.round)
	room.mu.Unlock()
}

func TestSummaries(t *testing.T) {
	t.Parallel()
	g := newTestRegistry(&fakeEmitter{}, nil)

	room, err := g.Create(CreateConfig{HostName: "moshe", TeamCount: 3})
	require.NoError(t, err)

	sums := g.Summaries()
	require.Len(t, sums, 1)
	assert.Equal(t, room.Code(), sums[0].Code)
	assert.Equal(t, 1, sums[0].PlayerCount)
	assert.Len(t, sums[0].Scores, 3)
	assert.False(t, sums[0].RoundActive)
}
