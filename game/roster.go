package game

import (
	"context"

	"github.com/google/uuid"
)

// Join adds a player to the room, or updates them in place when the client id
// was seen before (reconnects and team switches re-use the same entry). The
// returned id is the caller-supplied one or a freshly generated identity.
func (r *Room) Join(clientID, name, teamID string) (string, GameView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return "", GameView{}, ErrRoomEnded
	}
	if name == "" {
		name = "Player"
	}
	if _, ok := r.teams[teamID]; !ok {
		teamID = r.teamOrder[0]
	}
	if clientID == "" {
		clientID = uuid.NewString()
	}
	r.touch()

	p, seen := r.players[clientID]
	if !seen {
		p = &Player{ClientID: clientID, Name: name, TeamID: teamID, Connected: true}
		r.players[clientID] = p
	} else {
		if p.TeamID != teamID {
			r.teams[p.TeamID].removeMember(clientID)
		}
		p.Name = name
		p.TeamID = teamID
		p.Connected = true
	}

	team := r.teams[teamID]
	if !team.hasMember(clientID) {
		team.Members = append(team.Members, clientID)
	}

	r.log.Info().Str("client", clientID).Str("team", teamID).Str("name", name).Msg("player joined")
	r.broadcastUpdate()
	r.record("player_joined", func(ctx context.Context) error {
		return r.rec.PlayerJoined(ctx, r.code, clientID, name, teamID)
	})
	return clientID, r.view(), nil
}

// RemovePlayer force-removes a player on the host's request. If the target is
// the active round's explainer the round is terminated first; removal never
// leaves a round pointed at a player who is no longer there.
func (r *Room) RemovePlayer(callerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return ErrNotHost
	}
	p, ok := r.players[targetID]
	if !ok {
		return ErrPlayerNotFound
	}
	r.touch()

	if r.round != nil && r.round.ExplainerID == targetID {
		r.endRound(ReasonPlayerDisconnected)
	}
	r.teams[p.TeamID].removeMember(targetID)
	delete(r.players, targetID)

	r.log.Info().Str("client", targetID).Msg("player removed by host")
	r.emit.SendTo(targetID, EventPlayerRemoved, struct{}{})
	r.emit.Disconnect(targetID, "removed by host")
	r.broadcastUpdate()
	r.record("player_removed", func(ctx context.Context) error {
		return r.rec.PlayerRemoved(ctx, r.code, targetID)
	})
	return nil
}

// MarkDisconnected flags a player as gone without dropping their roster entry,
// so team membership and scores survive transient network loss. A dropped
// explainer takes the active round down with them.
func (r *Room) MarkDisconnected(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[clientID]
	if !ok {
		return
	}
	r.touch()
	p.Connected = false

	if r.round != nil && r.round.ExplainerID == clientID {
		r.endRound(ReasonPlayerDisconnected)
	}
	r.log.Info().Str("client", clientID).Bool("host", p.IsHost).Msg("player disconnected")
	r.broadcastUpdate()
}

// MarkConnected flips a returning player back to connected. Used by the
// gateway after a reconnect or a verified host reclaim.
func (r *Room) MarkConnected(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[clientID]
	if !ok {
		return ErrPlayerNotFound
	}
	r.touch()
	p.Connected = true
	r.broadcastUpdate()
	return nil
}

// HostID returns the room's host identity.
func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

// pickExplainer chooses a connected member of the team according to the
// configured policy. Must be called with the lock held.
func (r *Room) pickExplainer(team *Team) string {
	var candidates []string
	for _, id := range team.Members {
		if p, ok := r.players[id]; ok && p.Connected {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	if r.explPick == ExplainerRandom {
		return candidates[r.rng.Intn(len(candidates))]
	}
	return candidates[0]
}
