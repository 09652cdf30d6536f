package game

import "errors"

var (
	ErrRoomNotFound  = errors.New("Room not found")
	ErrRoomEnded     = errors.New("Room has already ended")
	ErrRoundActive   = errors.New("A round is already active")
	ErrNoActiveRound = errors.New("No active round")
	ErrTeamNotFound  = errors.New("Team not found")
	ErrPlayerNotFound = errors.New("Player not found")
	ErrTeamEmpty     = errors.New("Team has no members")
	ErrNotHost       = errors.New("Only the host can do that")
	ErrWrongMode     = errors.New("Not available in this game mode")
)
