package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mosheco2/cohens-multi/game"
)

var ErrUnexpectedDatabase = errors.New("Unexpected database error")

// PostgresRepo is the best-effort durable log behind the game core. It
// implements game.Recorder and serves the admin history queries.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pg *PostgresRepo) Close() {
	pg.pool.Close()
}

func wrap(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
}

func (pg *PostgresRepo) RoomCreated(ctx context.Context, rec game.RoomRecord) error {
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO rooms (code, mode, host_name, target_score, team_count, pack_keys, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.Code, rec.Mode, rec.HostName, rec.TargetScore, rec.TeamCount, rec.PackKeys, rec.CreatedAt)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (pg *PostgresRepo) RoundStarted(ctx context.Context, code, teamID, explainerID string, durationSecs int) error {
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO room_events (room_code, event, team_id, explainer_id, duration_secs)
		 VALUES ($1, 'round_started', $2, $3, $4)`,
		code, teamID, explainerID, durationSecs)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (pg *PostgresRepo) RoundEnded(ctx context.Context, code, teamID string, roundScore, teamTotal int, reason string) error {
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO room_events (room_code, event, team_id, round_score, team_total, reason)
		 VALUES ($1, 'round_ended', $2, $3, $4, $5)`,
		code, teamID, roundScore, teamTotal, reason)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (pg *PostgresRepo) PlayerJoined(ctx context.Context, code, clientID, name, teamID string) error {
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO room_events (room_code, event, client_id, player_name, team_id)
		 VALUES ($1, 'player_joined', $2, $3, $4)`,
		code, clientID, name, teamID)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (pg *PostgresRepo) PlayerRemoved(ctx context.Context, code, clientID string) error {
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO room_events (room_code, event, client_id)
		 VALUES ($1, 'player_removed', $2)`,
		code, clientID)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (pg *PostgresRepo) RoomClosed(ctx context.Context, code string, scores map[string]int, winnerTeamIDs []string) error {
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	_, err = pg.pool.Exec(ctx,
		`UPDATE rooms SET closed_at = now(), scores = $2, winner_team_ids = $3
		 WHERE id = (SELECT id FROM rooms WHERE code = $1 AND closed_at IS NULL
		             ORDER BY created_at DESC LIMIT 1)`,
		code, scoresJSON, winnerTeamIDs)
	if err != nil {
		return wrap(err)
	}
	return nil
}

// RoomHistory is one finished (or abandoned) room as the admin surface sees it.
type RoomHistory struct {
	Code          string          `json:"code"`
	Mode          string          `json:"mode"`
	HostName      string          `json:"hostName"`
	TargetScore   int             `json:"targetScore"`
	CreatedAt     time.Time       `json:"createdAt"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	Scores        json.RawMessage `json:"scores,omitempty"`
	WinnerTeamIDs []string        `json:"winnerTeamIds,omitempty"`
}

const historyLimit = 200

// ListRoomHistory returns rooms created inside [from, to], newest first,
// optionally filtered by a free-text match over room code, host name and the
// names of players who joined.
func (pg *PostgresRepo) ListRoomHistory(ctx context.Context, from, to time.Time, query string) ([]RoomHistory, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT r.code, r.mode, r.host_name, r.target_score, r.created_at, r.closed_at, r.scores, r.winner_team_ids
		 FROM rooms r
		 WHERE r.created_at BETWEEN $1 AND $2
		   AND ($3 = ''
		        OR r.code ILIKE '%' || $3 || '%'
		        OR r.host_name ILIKE '%' || $3 || '%'
		        OR EXISTS (SELECT 1 FROM room_events e
		                   WHERE e.room_code = r.code
		                     AND e.event = 'player_joined'
		                     AND e.created_at >= r.created_at
		                     AND e.player_name ILIKE '%' || $3 || '%'))
		 ORDER BY r.created_at DESC
		 LIMIT $4`,
		from, to, query, historyLimit)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var out []RoomHistory
	for rows.Next() {
		h := RoomHistory{}
		if err := rows.Scan(&h.Code, &h.Mode, &h.HostName, &h.TargetScore,
			&h.CreatedAt, &h.ClosedAt, &h.Scores, &h.WinnerTeamIDs); err != nil {
			return nil, wrap(err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err)
	}
	return out, nil
}
