package gateway

import (
	"encoding/json"
	"time"

	"golang.org/x/time/rate"
)

const (
	outboxSize   = 256
	pingInterval = 30 * time.Second
)

// client is one websocket connection. clientID/roomCode are set by bind once
// the connection identifies itself (create, join or host reclaim).
type client struct {
	connID  string
	socket  NetworkSession
	outbox  chan []byte
	done    chan struct{}
	limiter *rate.Limiter

	clientID string
	roomCode string
}

func newClient(connID string, socket NetworkSession) *client {
	return &client{
		connID:  connID,
		socket:  socket,
		outbox:  make(chan []byte, outboxSize),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// enqueue drops the message when the outbox is full; delivery is best-effort
// and a slow consumer must not stall the room.
func (c *client) enqueue(data []byte) {
	select {
	case c.outbox <- data:
	default:
	}
}

func (c *client) send(event string, data any) {
	b, err := json.Marshal(eventMsg{Event: event, Data: data})
	if err != nil {
		return
	}
	c.enqueue(b)
}

func (c *client) ack(seq int64, data any, opErr error) {
	msg := ackMsg{Event: "ack", Seq: seq, OK: opErr == nil, Data: data}
	if opErr != nil {
		msg.Error = opErr.Error()
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.enqueue(b)
}

func (c *client) WritePump() {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case data, ok := <-c.outbox:
			if !ok {
				return
			}
			if err := c.socket.Write(data); err != nil {
				return
			}
		case <-ping.C:
			if err := c.socket.Ping(); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// ReadPump feeds inbound frames to handle until the connection drops.
// Messages beyond the rate limit are discarded.
func (c *client) ReadPump(handle func(*client, []byte)) {
	for {
		data, err := c.socket.Read()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			continue
		}
		handle(c, data)
	}
}

func (c *client) close(reason string) {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.socket.Close(reason)
}
