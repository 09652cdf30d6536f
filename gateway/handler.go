package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mosheco2/cohens-multi/crypto"
	"github.com/mosheco2/cohens-multi/game"
)

var (
	errUnknownAction = errors.New("Unknown action")
	errNotInRoom     = errors.New("Not joined to a room")
)

type Handler struct {
	hub      *Hub
	registry *game.Registry
	tokens   *crypto.JWTManager
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, registry *game.Registry, tokens *crypto.JWTManager, log zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		registry: registry,
		tokens:   tokens,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and runs the connection's pumps until it
// drops. A dropped connection marks its player disconnected; the room decides
// what that means (explainer disconnect ends the round, hosts are waited for).
func (h *Handler) ServeWS(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	c := newClient(uuid.NewString(), NewWebsocketConnection(conn))
	h.hub.add(c)
	go c.WritePump()

	c.ReadPump(h.dispatch)

	roomCode, clientID := h.hub.binding(c)
	h.hub.drop(c)
	c.close("")
	// Skip the disconnect transition when the identity already lives on a
	// newer connection (fast reconnect superseding this one).
	if roomCode != "" && clientID != "" && !h.hub.hasClient(clientID) {
		if room, err := h.registry.Lookup(roomCode); err == nil {
			room.MarkDisconnected(clientID)
		}
	}
}

func (h *Handler) dispatch(c *client, data []byte) {
	req := request{}
	if err := json.Unmarshal(data, &req); err != nil {
		c.ack(0, nil, errors.New("Invalid request format"))
		return
	}

	var (
		resp  any
		opErr error
	)
	switch req.Action {
	case actionCreateRoom:
		resp, opErr = h.handleCreateRoom(c, req.Data)
	case actionJoinRoom:
		resp, opErr = h.handleJoinRoom(c, req.Data)
	case actionReclaimHost:
		resp, opErr = h.handleReclaimHost(c, req.Data)
	case actionStartRound:
		opErr = h.handleStartRound(c, req.Data)
	case actionMarkCorrect:
		opErr = h.withRoom(c, req.Data, func(r *game.Room) error { return r.MarkCorrect() })
	case actionSkipWord:
		opErr = h.withRoom(c, req.Data, func(r *game.Room) error { return r.Skip() })
	case actionEndRound:
		opErr = h.withRoom(c, req.Data, func(r *game.Room) error { return r.EndRound() })
	case actionEndGame:
		opErr = h.handleEndGame(c, req.Data)
	case actionRemovePlayer:
		opErr = h.handleRemovePlayer(c, req.Data)
	case actionSubmitWord:
		opErr = h.handleSubmitWord(c, req.Data)
	case actionUpdateBoard:
		opErr = h.handleUpdateBoard(c, req.Data)
	default:
		opErr = errUnknownAction
	}
	c.ack(req.Seq, resp, opErr)
}

// roomFor resolves the room from the request code, falling back to the
// connection's bound room.
func (h *Handler) roomFor(c *client, code string) (*game.Room, error) {
	if code == "" {
		code = c.roomCode
	}
	if code == "" {
		return nil, errNotInRoom
	}
	return h.registry.Lookup(code)
}

func (h *Handler) withRoom(c *client, data json.RawMessage, fn func(*game.Room) error) error {
	req := roomRequest{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return errors.New("Invalid request format")
		}
	}
	room, err := h.roomFor(c, req.GameCode)
	if err != nil {
		return err
	}
	return fn(room)
}

func (h *Handler) handleCreateRoom(c *client, data json.RawMessage) (any, error) {
	req := createRoomRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("Invalid request format")
	}

	room, err := h.registry.Create(game.CreateConfig{
		Mode:        game.Mode(req.Mode),
		HostName:    req.HostName,
		TeamCount:   req.TeamCount,
		TargetScore: req.TargetScore,
		RoundSecs:   req.RoundSecs,
		PackKeys:    req.WordPackKeys,
		TeamNames:   req.TeamNames,
	})
	if err != nil {
		return nil, err
	}

	h.hub.bind(c, room.Code(), room.HostID())
	token, err := h.tokens.MintHostToken(room.Code(), room.HostID())
	if err != nil {
		h.log.Error().Err(err).Str("room", room.Code()).Msg("mint host token")
	}
	return createRoomResponse{GameCode: room.Code(), HostToken: token, Game: room.View()}, nil
}

func (h *Handler) handleJoinRoom(c *client, data json.RawMessage) (any, error) {
	req := joinRoomRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("Invalid request format")
	}
	room, err := h.registry.Lookup(req.GameCode)
	if err != nil {
		return nil, err
	}
	clientID, view, err := room.Join(req.ClientID, req.PlayerName, req.TeamID)
	if err != nil {
		return nil, err
	}
	h.hub.bind(c, room.Code(), clientID)

	assigned := ""
	for _, p := range view.Players {
		if p.ID == clientID {
			assigned = p.TeamID
		}
	}
	return joinRoomResponse{GameCode: room.Code(), ClientID: clientID, TeamID: assigned, Game: view}, nil
}

func (h *Handler) handleReclaimHost(c *client, data json.RawMessage) (any, error) {
	req := reclaimHostRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.New("Invalid request format")
	}
	claims, err := h.tokens.VerifyHostToken(req.HostToken)
	if err != nil {
		return nil, err
	}
	room, err := h.registry.Lookup(claims.RoomCode)
	if err != nil {
		return nil, err
	}
	if claims.ClientID != room.HostID() {
		return nil, game.ErrNotHost
	}
	h.hub.bind(c, room.Code(), claims.ClientID)
	if err := room.MarkConnected(claims.ClientID); err != nil && !errors.Is(err, game.ErrPlayerNotFound) {
		return nil, err
	}
	return joinRoomResponse{GameCode: room.Code(), ClientID: claims.ClientID, Game: room.View()}, nil
}

func (h *Handler) handleStartRound(c *client, data json.RawMessage) error {
	req := startRoundRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.New("Invalid request format")
	}
	room, err := h.roomFor(c, req.GameCode)
	if err != nil {
		return err
	}
	return room.StartRound(req.TeamID, req.RoundSecs, req.ExplainerID)
}

func (h *Handler) handleEndGame(c *client, data json.RawMessage) error {
	req := roomRequest{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return errors.New("Invalid request format")
		}
	}
	room, err := h.roomFor(c, req.GameCode)
	if err != nil {
		return err
	}
	if err := room.EndGame(c.clientID); err != nil {
		return err
	}
	h.registry.Remove(room.Code())
	return nil
}

func (h *Handler) handleRemovePlayer(c *client, data json.RawMessage) error {
	req := removePlayerRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.New("Invalid request format")
	}
	room, err := h.roomFor(c, req.GameCode)
	if err != nil {
		return err
	}
	return room.RemovePlayer(c.clientID, req.ClientID)
}

func (h *Handler) handleSubmitWord(c *client, data json.RawMessage) error {
	req := submitWordRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.New("Invalid request format")
	}
	room, err := h.roomFor(c, "")
	if err != nil {
		return err
	}
	return room.SubmitWord(c.clientID, req.Word)
}

func (h *Handler) handleUpdateBoard(c *client, data json.RawMessage) error {
	req := updateBoardRequest{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errors.New("Invalid request format")
	}
	room, err := h.roomFor(c, "")
	if err != nil {
		return err
	}
	return room.UpdateBoard(c.clientID, req.Indices)
}
