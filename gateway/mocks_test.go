package gateway

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSession is an in-memory NetworkSession. Read blocks on the inbound
// channel; Write collects frames for assertions.
type fakeSession struct {
	mu          sync.Mutex
	written     [][]byte
	inbound     chan []byte
	closed      bool
	closeReason string
	pings       int
}

func newFakeSession() *fakeSession {
	return &fakeSession{inbound: make(chan []byte, 16)}
}

func (f *fakeSession) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("session closed")
	}
	f.written = append(f.written, data)
	return nil
}

func (f *fakeSession) Read() ([]byte, error) {
	data, ok := <-f.inbound
	if !ok {
		return nil, errors.New("session closed")
	}
	return data, nil
}

func (f *fakeSession) Ping() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return nil
}

func (f *fakeSession) Close(errCode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.closeReason = errCode
}

func (f *fakeSession) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// envelope is the union of ack and event frames for test decoding.
type envelope struct {
	Event string          `json:"event"`
	Seq   int64           `json:"seq"`
	OK    bool            `json:"ok"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// drain empties a client's outbox into decoded envelopes.
func drain(t *testing.T, c *client) []envelope {
	t.Helper()
	var out []envelope
	for {
		select {
		case data := <-c.outbox:
			var env envelope
			require.NoError(t, json.Unmarshal(data, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func lastAck(t *testing.T, c *client) envelope {
	t.Helper()
	msgs := drain(t, c)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Event == "ack" {
			return msgs[i]
		}
	}
	t.Fatal("no ack in outbox")
	return envelope{}
}

func eventsOf(msgs []envelope, event string) []envelope {
	var out []envelope
	for _, m := range msgs {
		if m.Event == event {
			out = append(out, m)
		}
	}
	return out
}
