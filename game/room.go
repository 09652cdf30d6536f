package game

import (
	"context"
	"time"
)

// recordTimeout bounds background persistence writes so a hung store cannot
// pile up goroutines forever.
const recordTimeout = 5 * time.Second

// record runs a persistence write in the background. Failures are logged and
// swallowed: the store is advisory, gameplay never waits on it.
func (r *Room) record(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			r.log.Error().Err(err).Str("op", op).Msg("persistence hook failed")
		}
	}()
}

// broadcastUpdate must be called with the room lock held.
func (r *Room) broadcastUpdate() {
	r.emit.Broadcast(r.code, EventGameUpdated, r.view())
}

func (r *Room) broadcastScores() {
	r.emit.Broadcast(r.code, EventScoreUpdated, ScoreUpdatedPayload{
		Teams:       r.teamViews(),
		Scores:      r.scores(),
		TargetScore: r.targetScore,
	})
}

// sendToTeam delivers an event to every member of one team only.
func (r *Room) sendToTeam(teamID, event string, data any) {
	team, ok := r.teams[teamID]
	if !ok {
		return
	}
	for _, clientID := range team.Members {
		r.emit.SendTo(clientID, event, data)
	}
}

// endGame finalizes the room. Idempotent; must be called with the lock held.
func (r *Room) endGame(forceWinners []string) {
	if r.ended {
		return
	}
	r.ended = true
	r.round = nil
	r.speedRound = nil

	winners := forceWinners
	if len(winners) == 0 {
		winners = r.winnerTeamIDs()
	}
	scores := r.scores()
	r.emit.Broadcast(r.code, EventGameEnded, GameEndedPayload{
		Teams:         r.teamViews(),
		Scores:        scores,
		WinnerTeamIDs: winners,
	})
	r.log.Info().Strs("winners", winners).Msg("game ended")
	r.record("room_closed", func(ctx context.Context) error {
		return r.rec.RoomClosed(ctx, r.code, scores, winners)
	})
}

// EndGame ends the whole game on the host's request.
func (r *Room) EndGame(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if callerID != r.hostID {
		return ErrNotHost
	}
	if r.ended {
		return ErrRoomEnded
	}
	r.touch()
	r.endGame(nil)
	return nil
}

// Tick drives the room's time-based transitions. Called once a second by the
// registry loop; remaining time is always recomputed from the deadline so a
// delayed tick cannot drift the clock.
func (r *Room) Tick(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return
	}
	switch {
	case r.round != nil:
		remaining := remainingAt(r.round.Deadline, now)
		if remaining <= 0 {
			r.endRound(ReasonTimer)
			return
		}
		if remaining != r.round.lastTicked {
			r.round.lastTicked = remaining
			r.emit.Broadcast(r.code, EventRoundTick, RoundTickPayload{RemainingSecs: remaining})
		}
	case r.speedRound != nil:
		remaining := remainingAt(r.speedRound.Deadline, now)
		if remaining <= 0 {
			r.endSpeedRound()
			return
		}
		if remaining != r.speedRound.lastTicked {
			r.speedRound.lastTicked = remaining
			r.emit.Broadcast(r.code, EventRoundTick, RoundTickPayload{RemainingSecs: remaining})
		}
	}
}
