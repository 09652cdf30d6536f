package gateway

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub tracks live connections and their room subscriptions, and implements
// game.Emitter so rooms can fan events out without knowing about sockets.
type Hub struct {
	mu       sync.RWMutex
	byConn   map[string]*client
	byClient map[string]*client
	rooms    map[string]map[string]*client // room code -> conn id -> client
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		byConn:   make(map[string]*client),
		byClient: make(map[string]*client),
		rooms:    make(map[string]map[string]*client),
		log:      log,
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byConn[c.connID] = c
}

// bind attaches a connection to a room and a player identity. A newer
// connection for the same client id supersedes the old one.
func (h *Hub) bind(c *client, roomCode, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.byClient[clientID]; ok && prev != c {
		h.unsubscribeLocked(prev)
	}

	h.detachLocked(c)
	c.roomCode = roomCode
	c.clientID = clientID
	h.byClient[clientID] = c
	subs, ok := h.rooms[roomCode]
	if !ok {
		subs = make(map[string]*client)
		h.rooms[roomCode] = subs
	}
	subs[c.connID] = c
}

// unsubscribeLocked removes a connection from the hub maps without touching
// its fields; only the connection's own goroutine writes those.
func (h *Hub) unsubscribeLocked(c *client) {
	for code, subs := range h.rooms {
		if _, ok := subs[c.connID]; ok {
			delete(subs, c.connID)
			if len(subs) == 0 {
				delete(h.rooms, code)
			}
		}
	}
	for id, cl := range h.byClient {
		if cl == c {
			delete(h.byClient, id)
		}
	}
}

// detachLocked fully unbinds a connection. Must only be called from the
// connection's own goroutine.
func (h *Hub) detachLocked(c *client) {
	h.unsubscribeLocked(c)
	c.roomCode = ""
	c.clientID = ""
}

// binding reads a connection's current room/identity under the hub lock.
func (h *Hub) binding(c *client) (roomCode, clientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.roomCode, c.clientID
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
	delete(h.byConn, c.connID)
}

// Broadcast sends an event to every connection subscribed to the room.
func (h *Hub) Broadcast(roomCode, event string, data any) {
	b, err := json.Marshal(eventMsg{Event: event, Data: data})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("marshal broadcast")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[roomCode] {
		c.enqueue(b)
	}
}

// SendTo targets one player identity, wherever it is connected.
func (h *Hub) SendTo(clientID, event string, data any) {
	h.mu.RLock()
	c, ok := h.byClient[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.send(event, data)
}

// Disconnect force-closes a player's connection and drops its subscriptions.
func (h *Hub) Disconnect(clientID, reason string) {
	h.mu.Lock()
	c, ok := h.byClient[clientID]
	if ok {
		h.unsubscribeLocked(c)
	}
	h.mu.Unlock()
	if ok {
		c.close(reason)
	}
}

// hasClient reports whether some live connection currently owns the identity.
func (h *Hub) hasClient(clientID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.byClient[clientID]
	return ok
}
