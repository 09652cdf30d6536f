package game

import (
	"context"
	"time"
)

const (
	minRoundSecs     = 20
	maxRoundSecs     = 240
	defaultRoundSecs = 60
)

func clampRoundSecs(secs int) int {
	if secs == 0 {
		return defaultRoundSecs
	}
	if secs < minRoundSecs {
		return defaultRoundSecs
	}
	if secs > maxRoundSecs {
		return maxRoundSecs
	}
	return secs
}

// StartRound opens the room's single active-round slot. A re-entrant start
// while a round is running is rejected, not queued. In speed mode the team and
// explainer arguments are ignored and a shared letter board is dealt instead.
func (r *Room) StartRound(teamID string, durationSecs int, explainerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return ErrRoomEnded
	}
	if r.round != nil || r.speedRound != nil {
		return ErrRoundActive
	}
	r.touch()

	if r.mode == ModeSpeed {
		return r.startSpeedRound(durationSecs)
	}

	if _, ok := r.teams[teamID]; !ok {
		teamID = r.teamOrder[0]
	}
	team := r.teams[teamID]
	if len(team.Members) == 0 {
		return ErrTeamEmpty
	}

	secs := clampRoundSecs(durationSecs)
	if durationSecs == 0 && r.roundSecs != 0 {
		secs = r.roundSecs
	}

	if explainerID != "" && !team.hasMember(explainerID) {
		explainerID = ""
	}
	if explainerID == "" {
		explainerID = r.pickExplainer(team)
	}

	r.round = &Round{
		TeamID:      teamID,
		ExplainerID: explainerID,
		Deadline:    r.now().Add(time.Duration(secs) * time.Second),
	}

	r.log.Info().Str("team", teamID).Str("explainer", explainerID).Int("secs", secs).Msg("round started")
	r.emit.Broadcast(r.code, EventRoundStarted, RoundStartedPayload{
		TeamID:      teamID,
		ExplainerID: explainerID,
		RoundSecs:   secs,
		Teams:       r.teamViews(),
		Scores:      r.scores(),
		TargetScore: r.targetScore,
	})
	if explainerID != "" {
		r.deliverNextWord()
	}
	r.record("round_started", func(ctx context.Context) error {
		return r.rec.RoundStarted(ctx, r.code, teamID, explainerID, secs)
	})
	return nil
}

// deliverNextWord draws the next word and pushes it to the explainer only.
// Must be called with the lock held and an active classic round.
func (r *Room) deliverNextWord() {
	word := r.words.Draw()
	r.round.CurrentWord = word
	r.emit.SendTo(r.round.ExplainerID, EventWordForExplainer, WordPayload{Word: word})
}

// MarkCorrect scores a correct guess: the team's live total and the round's
// delta both move immediately, so spectators see running scores without
// waiting for the summary. Reaching the target score ends the game on the
// spot, preempting the rest of the round.
func (r *Room) MarkCorrect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return ErrRoomEnded
	}
	if r.round == nil {
		return ErrNoActiveRound
	}
	r.touch()

	team := r.teams[r.round.TeamID]
	team.Score++
	r.round.RoundScore++
	r.broadcastScores()

	if team.Score >= r.targetScore {
		r.endGame([]string{team.ID})
		return nil
	}
	r.deliverNextWord()
	return nil
}

// Skip costs one point. The team's live total is floored at zero; the
// round-local delta is not, so the summary still reflects every skip.
func (r *Room) Skip() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return ErrRoomEnded
	}
	if r.round == nil {
		return ErrNoActiveRound
	}
	r.touch()

	team := r.teams[r.round.TeamID]
	if team.Score > 0 {
		team.Score--
	}
	r.round.RoundScore--
	r.broadcastScores()
	r.deliverNextWord()
	return nil
}

// EndRound ends the active round manually. Ending when no round is active is
// a no-op, which makes a late or duplicated end request harmless.
func (r *Room) EndRound() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return ErrRoomEnded
	}
	if r.round == nil {
		return nil
	}
	r.touch()
	r.endRound(ReasonManual)
	return nil
}

// endRound finalizes and destroys the active round. Score deltas were already
// applied live by MarkCorrect/Skip, so this only emits the summary and folds
// nothing twice. Must be called with the lock held and r.round non-nil.
func (r *Room) endRound(reason RoundEndReason) {
	round := r.round
	r.round = nil

	team := r.teams[round.TeamID]
	r.log.Info().Str("team", round.TeamID).Int("roundScore", round.RoundScore).
		Str("reason", string(reason)).Msg("round ended")

	r.emit.Broadcast(r.code, EventRoundEnded, RoundEndedPayload{
		TeamID:     round.TeamID,
		Teams:      r.teamViews(),
		Scores:     r.scores(),
		RoundScore: round.RoundScore,
		TeamTotal:  team.Score,
		Reason:     reason,
	})
	r.record("round_ended", func(ctx context.Context) error {
		return r.rec.RoundEnded(ctx, r.code, round.TeamID, round.RoundScore, team.Score, string(reason))
	})

	// The live-update path can only raise totals one at a time, so a win is
	// normally caught by MarkCorrect. This covers rooms created with a target
	// below an existing score.
	if team.Score >= r.targetScore {
		r.endGame(r.winnerTeamIDs())
	}
}
