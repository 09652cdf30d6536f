package game

import (
	"context"
	"time"
)

// Emitter fans room events out to connected clients. Implemented by the
// websocket gateway; rooms never talk to sockets directly.
type Emitter interface {
	Broadcast(roomCode string, event string, data any)
	SendTo(clientID string, event string, data any)
	Disconnect(clientID string, reason string)
}

// Recorder is the best-effort persistence hook. Calls are fired in the
// background at lifecycle points; a failing recorder never blocks gameplay.
type Recorder interface {
	RoomCreated(ctx context.Context, rec RoomRecord) error
	RoundStarted(ctx context.Context, code, teamID, explainerID string, durationSecs int) error
	RoundEnded(ctx context.Context, code, teamID string, roundScore, teamTotal int, reason string) error
	PlayerJoined(ctx context.Context, code, clientID, name, teamID string) error
	PlayerRemoved(ctx context.Context, code, clientID string) error
	RoomClosed(ctx context.Context, code string, scores map[string]int, winnerTeamIDs []string) error
}

// RoomRecord is the durable shape of a room at creation time.
type RoomRecord struct {
	Code        string
	Mode        string
	HostName    string
	TargetScore int
	TeamCount   int
	PackKeys    []string
	CreatedAt   time.Time
}

// PeriodicTickerChannelCreator abstracts time.Ticker so the registry loop can
// be driven by hand in tests.
type PeriodicTickerChannelCreator interface {
	Create(d time.Duration) <-chan time.Time
}

type tickerGen struct{}

func (tickerGen) Create(d time.Duration) <-chan time.Time {
	return time.NewTicker(d).C
}

func NewTickerGen() PeriodicTickerChannelCreator {
	return tickerGen{}
}

// NopRecorder satisfies Recorder and records nothing. Used when the process
// runs without a database and in tests.
type NopRecorder struct{}

func (NopRecorder) RoomCreated(context.Context, RoomRecord) error { return nil }
func (NopRecorder) RoundStarted(context.Context, string, string, string, int) error {
	return nil
}
func (NopRecorder) RoundEnded(context.Context, string, string, int, int, string) error {
	return nil
}
func (NopRecorder) PlayerJoined(context.Context, string, string, string, string) error {
	return nil
}
func (NopRecorder) PlayerRemoved(context.Context, string, string) error { return nil }
func (NopRecorder) RoomClosed(context.Context, string, map[string]int, []string) error {
	return nil
}
