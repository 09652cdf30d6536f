package gateway

import (
	"encoding/json"

	"github.com/mosheco2/cohens-multi/game"
)

// Client requests arrive as {"action": ..., "seq": ..., "data": {...}}. Every
// request is answered with an ack carrying the same seq; room events are
// pushed as {"event": ..., "data": {...}} with no seq.
type request struct {
	Action string          `json:"action"`
	Seq    int64           `json:"seq"`
	Data   json.RawMessage `json:"data"`
}

type eventMsg struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type ackMsg struct {
	Event string `json:"event"`
	Seq   int64  `json:"seq"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

const (
	actionCreateRoom   = "createRoom"
	actionJoinRoom     = "joinRoom"
	actionReclaimHost  = "reclaimHost"
	actionStartRound   = "startRound"
	actionMarkCorrect  = "markCorrect"
	actionSkipWord     = "skipWord"
	actionEndRound     = "endRound"
	actionEndGame      = "endGame"
	actionRemovePlayer = "removePlayer"
	actionSubmitWord   = "submitWord"
	actionUpdateBoard  = "updateTeamBoard"
)

type createRoomRequest struct {
	Mode         string            `json:"mode"`
	HostName     string            `json:"hostName"`
	TeamCount    int               `json:"teamCount"`
	TargetScore  int               `json:"targetScore"`
	RoundSecs    int               `json:"roundTime"`
	WordPackKeys []string          `json:"wordPackKeys"`
	TeamNames    map[string]string `json:"teamNames"`
}

type createRoomResponse struct {
	GameCode  string        `json:"gameCode"`
	HostToken string        `json:"hostToken"`
	Game      game.GameView `json:"game"`
}

type joinRoomRequest struct {
	GameCode   string `json:"gameCode"`
	PlayerName string `json:"playerName"`
	TeamID     string `json:"teamId"`
	ClientID   string `json:"clientId"`
}

type joinRoomResponse struct {
	GameCode string        `json:"gameCode"`
	ClientID string        `json:"clientId"`
	TeamID   string        `json:"teamId"`
	Game     game.GameView `json:"game"`
}

type reclaimHostRequest struct {
	HostToken string `json:"hostToken"`
}

type startRoundRequest struct {
	GameCode    string `json:"gameCode"`
	TeamID      string `json:"teamId"`
	RoundSecs   int    `json:"roundTime"`
	ExplainerID string `json:"explainerId"`
}

type roomRequest struct {
	GameCode string `json:"gameCode"`
}

type removePlayerRequest struct {
	GameCode string `json:"gameCode"`
	ClientID string `json:"clientId"`
}

type submitWordRequest struct {
	Word string `json:"word"`
}

type updateBoardRequest struct {
	Indices []int `json:"indices"`
}
