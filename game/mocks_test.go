package game

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- Emitter ---

// fakeEmitter records every emission so scenarios can assert on exactly what
// a room pushed out, in order.
type emission struct {
	kind   string // "broadcast", "sendTo" or "disconnect"
	target string // room code or client id
	event  string
	data   any
}

type fakeEmitter struct {
	mu        sync.Mutex
	emissions []emission
}

func (f *fakeEmitter) Broadcast(roomCode, event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emissions = append(f.emissions, emission{kind: "broadcast", target: roomCode, event: event, data: data})
}

func (f *fakeEmitter) SendTo(clientID, event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emissions = append(f.emissions, emission{kind: "sendTo", target: clientID, event: event, data: data})
}

func (f *fakeEmitter) Disconnect(clientID, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emissions = append(f.emissions, emission{kind: "disconnect", target: clientID, event: "", data: reason})
}

func (f *fakeEmitter) ofEvent(event string) []emission {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []emission
	for _, e := range f.emissions {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeEmitter) lastOf(event string) (emission, bool) {
	all := f.ofEvent(event)
	if len(all) == 0 {
		return emission{}, false
	}
	return all[len(all)-1], true
}

func (f *fakeEmitter) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emissions = nil
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(d time.Duration) <-chan time.Time {
	args := m.Called(d)
	return args.Get(0).(chan time.Time)
}

// --- Recorder ---

// channelRecorder signals each hook invocation so tests can wait for the
// fire-and-forget persistence goroutines.
type channelRecorder struct {
	NopRecorder
	calls chan string
}

func newChannelRecorder() *channelRecorder {
	return &channelRecorder{calls: make(chan string, 64)}
}

func (c *channelRecorder) RoomCreated(context.Context, RoomRecord) error {
	c.calls <- "room_created"
	return nil
}

func (c *channelRecorder) RoundStarted(context.Context, string, string, string, int) error {
	c.calls <- "round_started"
	return nil
}

func (c *channelRecorder) RoundEnded(context.Context, string, string, int, int, string) error {
	c.calls <- "round_ended"
	return nil
}

func (c *channelRecorder) PlayerJoined(context.Context, string, string, string, string) error {
	c.calls <- "player_joined"
	return nil
}

func (c *channelRecorder) RoomClosed(context.Context, string, map[string]int, []string) error {
	c.calls <- "room_closed"
	return nil
}

// --- clock ---

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
