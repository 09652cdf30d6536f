package game

import (
	"context"
	"sort"
	"strings"
	"time"
)

// startSpeedRound deals a fresh shared board and resets every team's
// round-local state. Must be called with the lock held and no active round.
func (r *Room) startSpeedRound(durationSecs int) error {
	secs := clampRoundSecs(durationSecs)
	if durationSecs == 0 && r.roundSecs != 0 {
		secs = r.roundSecs
	}

	for _, t := range r.teams {
		t.FoundWords = nil
		t.foundSet = make(map[string]struct{})
		t.Board = nil
	}
	r.speedRound = &SpeedRound{
		Letters:  drawLetters(r.rng, speedBoardSize),
		Deadline: r.now().Add(time.Duration(secs) * time.Second),
	}

	r.log.Info().Strs("letters", r.speedRound.Letters).Int("secs", secs).Msg("speed round started")
	r.emit.Broadcast(r.code, EventRoundStarted, RoundStartedPayload{
		RoundSecs:   secs,
		Teams:       r.teamViews(),
		Scores:      r.scores(),
		TargetScore: r.targetScore,
		Letters:     r.speedRound.Letters,
	})
	r.record("round_started", func(ctx context.Context) error {
		return r.rec.RoundStarted(ctx, r.code, "", "", secs)
	})
	return nil
}

// SubmitWord registers a word for the submitting player's team. Each distinct
// word counts once per team; resubmitting it is a no-op. Whether the word
// ultimately scores is decided at round end by the uniqueness rule.
func (r *Room) SubmitWord(clientID, word string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return ErrRoomEnded
	}
	if r.mode != ModeSpeed {
		return ErrWrongMode
	}
	if r.speedRound == nil {
		return ErrNoActiveRound
	}
	p, ok := r.players[clientID]
	if !ok {
		return ErrPlayerNotFound
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil
	}
	r.touch()

	team := r.teams[p.TeamID]
	if _, dup := team.foundSet[word]; dup {
		return nil
	}
	team.foundSet[word] = struct{}{}
	team.FoundWords = append(team.FoundWords, word)
	team.Board = nil

	r.sendToTeam(team.ID, EventWordAccepted, WordPayload{Word: word})
	r.sendToTeam(team.ID, EventBoardUpdated, BoardUpdatedPayload{TeamID: team.ID, Indices: nil})
	r.emit.SendTo(r.hostID, EventGameUpdated, r.view())
	return nil
}

// UpdateBoard synchronizes a team's in-progress letter picks across its
// members. Purely cosmetic state; it never affects scoring.
func (r *Room) UpdateBoard(clientID string, indices []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != ModeSpeed {
		return ErrWrongMode
	}
	if r.speedRound == nil {
		return ErrNoActiveRound
	}
	p, ok := r.players[clientID]
	if !ok {
		return ErrPlayerNotFound
	}
	r.touch()

	team := r.teams[p.TeamID]
	team.Board = indices
	r.sendToTeam(team.ID, EventBoardUpdated, BoardUpdatedPayload{TeamID: team.ID, Indices: indices})
	return nil
}

// endSpeedRound applies the uniqueness bonus: a word scores only for a team
// that was alone in finding it; a word found by two or more teams scores zero
// for everyone. Must be called with the lock held and r.speedRound non-nil.
func (r *Room) endSpeedRound() {
	r.speedRound = nil

	teamsFound := make(map[string]int)
	for _, t := range r.teams {
		for _, w := range t.FoundWords {
			teamsFound[w]++
		}
	}

	leaderboard := make([]LeaderboardEntry, 0, len(r.teamOrder))
	for _, t := range r.orderedTeams() {
		unique := 0
		for _, w := range t.FoundWords {
			if teamsFound[w] == 1 {
				unique++
			}
		}
		t.Score += unique
		leaderboard = append(leaderboard, LeaderboardEntry{
			TeamID:      t.ID,
			Name:        t.Name,
			Color:       t.Color,
			UniqueCount: unique,
			TotalWords:  len(t.FoundWords),
		})
		teamID, total := t.ID, t.Score
		r.record("round_ended", func(ctx context.Context) error {
			return r.rec.RoundEnded(ctx, r.code, teamID, unique, total, string(ReasonTimer))
		})
	}
	sort.SliceStable(leaderboard, func(i, j int) bool {
		return leaderboard[i].UniqueCount > leaderboard[j].UniqueCount
	})

	r.log.Info().Msg("speed round ended")
	r.emit.Broadcast(r.code, EventSpeedRoundEnded, SpeedRoundEndedPayload{
		Leaderboard: leaderboard,
		Scores:      r.scores(),
	})

	for _, t := range r.teams {
		if t.Score >= r.targetScore {
			r.endGame(r.winnerTeamIDs())
			return
		}
	}
}
