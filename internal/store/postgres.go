// Package store is the Postgres access layer for draft rooms. All
// reads are full-table fetches scoped by room_id; the only write path
// for player outcomes and turn advancement is the draft_pick database
// function, which validates turn order inside its own transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

// NotifyChannel is the Postgres NOTIFY channel carrying change signals.
// Payload format: "<room_id>:<table>".
const NotifyChannel = "draft_changes"

// ErrRoundsOutOfRange rejects rounds_total outside 1..200.
var ErrRoundsOutOfRange = errors.New("rounds total must be between 1 and 200")

// Postgres implements the room store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a store backed by the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// FetchState loads the draft_state row for a room.
func (s *Postgres) FetchState(ctx context.Context, roomID string) (*models.RoomState, error) {
	const q = `
		SELECT room_id, is_paused, pause_reason, rounds_total,
		       current_round, current_pick_in_round, current_coach_id
		FROM draft_state
		WHERE room_id = $1`

	var st models.RoomState
	err := s.pool.QueryRow(ctx, q, roomID).Scan(
		&st.RoomID, &st.IsPaused, &st.PauseReason, &st.RoundsTotal,
		&st.CurrentRound, &st.CurrentPickInRound, &st.CurrentCoachID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draft state: %w", err)
	}
	return &st, nil
}

// FetchCoaches loads the coach roster for a room ordered by coach_id.
func (s *Postgres) FetchCoaches(ctx context.Context, roomID string) ([]models.Coach, error) {
	const q = `
		SELECT coach_id, coach_name
		FROM coaches
		WHERE room_id = $1
		ORDER BY coach_id`

	rows, err := s.pool.Query(ctx, q, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coaches: %w", err)
	}
	defer rows.Close()

	var coaches []models.Coach
	for rows.Next() {
		var c models.Coach
		if err := rows.Scan(&c.CoachID, &c.CoachName); err != nil {
			return nil, fmt.Errorf("failed to scan coach: %w", err)
		}
		coaches = append(coaches, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch coaches: %w", err)
	}
	return coaches, nil
}

// FetchPlayers loads every player row for a room.
func (s *Postgres) FetchPlayers(ctx context.Context, roomID string) ([]models.Player, error) {
	const q = `
		SELECT player_no, pos, club, player_name, average,
		       drafted_by_coach_id, drafted_round, drafted_pick
		FROM players
		WHERE room_id = $1
		ORDER BY player_no`

	rows, err := s.pool.Query(ctx, q, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(
			&p.PlayerNo, &p.Pos, &p.Club, &p.PlayerName, &p.Average,
			&p.DraftedByCoachID, &p.DraftedRound, &p.DraftedPick,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}
	return players, nil
}

// FetchDraftOrder loads the configured draft order rows for a room.
func (s *Postgres) FetchDraftOrder(ctx context.Context, roomID string) ([]models.DraftOrderRow, error) {
	const q = `
		SELECT overall_pick, coach_id
		FROM draft_order
		WHERE room_id = $1
		ORDER BY overall_pick`

	rows, err := s.pool.Query(ctx, q, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draft order: %w", err)
	}
	defer rows.Close()

	var order []models.DraftOrderRow
	for rows.Next() {
		var r models.DraftOrderRow
		if err := rows.Scan(&r.OverallPick, &r.CoachID); err != nil {
			return nil, fmt.Errorf("failed to scan draft order row: %w", err)
		}
		order = append(order, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to fetch draft order: %w", err)
	}
	return order, nil
}

// DraftPick invokes the draft_pick database function: the sole writer
// of player outcome fields and of turn advancement. A transport error
// is returned as err; a rejected pick comes back as ok=false plus the
// database's message, passed through untouched.
func (s *Postgres) DraftPick(ctx context.Context, roomID string, playerNo, coachID int, overrideTurn bool) (models.PickResult, error) {
	const q = `SELECT ok, message FROM draft_pick($1, $2, $3, $4)`

	var res models.PickResult
	var message *string
	err := s.pool.QueryRow(ctx, q, roomID, playerNo, coachID, overrideTurn).Scan(&res.OK, &message)
	if err != nil {
		return models.PickResult{}, fmt.Errorf("failed to call draft_pick: %w", err)
	}
	if message != nil {
		res.Message = *message
	}
	return res, nil
}

// SetPaused pauses or resumes a room. Pausing records the manual pause
// tag; resuming clears the reason entirely.
func (s *Postgres) SetPaused(ctx context.Context, roomID string, paused bool) error {
	const q = `
		UPDATE draft_state
		SET is_paused = $2,
		    pause_reason = CASE WHEN $2 THEN 'Paused' ELSE NULL END
		WHERE room_id = $1`

	if _, err := s.pool.Exec(ctx, q, roomID, paused); err != nil {
		return fmt.Errorf("failed to update pause state: %w", err)
	}
	return s.notify(ctx, roomID, models.SourceState)
}

// ValidateRoundsTotal checks the admin-configurable round count.
func ValidateRoundsTotal(rounds int) error {
	if rounds < 1 || rounds > 200 {
		return ErrRoundsOutOfRange
	}
	return nil
}

// SetRoundsTotal updates the room's total round count.
func (s *Postgres) SetRoundsTotal(ctx context.Context, roomID string, rounds int) error {
	if err := ValidateRoundsTotal(rounds); err != nil {
		return err
	}

	const q = `UPDATE draft_state SET rounds_total = $2 WHERE room_id = $1`
	if _, err := s.pool.Exec(ctx, q, roomID, rounds); err != nil {
		return fmt.Errorf("failed to update rounds total: %w", err)
	}
	return s.notify(ctx, roomID, models.SourceState)
}

// ResetDraft reverts a room to its pre-draft state in one transaction:
// every player undrafted, all draft order rows removed, and the state
// row paused at round 1 pick 1 with the lowest coach_id on the clock.
func (s *Postgres) ResetDraft(ctx context.Context, roomID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reset transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE players
		SET drafted_by_coach_id = NULL, drafted_round = NULL, drafted_pick = NULL
		WHERE room_id = $1`, roomID); err != nil {
		return fmt.Errorf("failed to undraft players: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM draft_order WHERE room_id = $1`, roomID); err != nil {
		return fmt.Errorf("failed to clear draft order: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE draft_state
		SET is_paused = TRUE,
		    pause_reason = NULL,
		    current_round = 1,
		    current_pick_in_round = 1,
		    current_coach_id = COALESCE(
		        (SELECT MIN(coach_id) FROM coaches WHERE room_id = $1), 1)
		WHERE room_id = $1`, roomID); err != nil {
		return fmt.Errorf("failed to reset draft state: %w", err)
	}

	for _, source := range []models.Source{models.SourceState, models.SourcePlayers, models.SourceOrder} {
		if err := notifyTx(ctx, tx, roomID, source); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reset transaction: %w", err)
	}
	return nil
}

// notify emits a change signal for one source of a room. Signals are
// advisory; the poll fallback covers a lost notification.
func (s *Postgres) notify(ctx context.Context, roomID string, source models.Source) error {
	const q = `SELECT pg_notify($1, $2)`
	if _, err := s.pool.Exec(ctx, q, NotifyChannel, NotifyPayload(roomID, source)); err != nil {
		return fmt.Errorf("failed to notify change: %w", err)
	}
	return nil
}

func notifyTx(ctx context.Context, tx pgx.Tx, roomID string, source models.Source) error {
	const q = `SELECT pg_notify($1, $2)`
	if _, err := tx.Exec(ctx, q, NotifyChannel, NotifyPayload(roomID, source)); err != nil {
		return fmt.Errorf("failed to notify change: %w", err)
	}
	return nil
}

// NotifyPayload builds the "<room_id>:<table>" payload used on the
// NOTIFY channel.
func NotifyPayload(roomID string, source models.Source) string {
	return roomID + ":" + string(source)
}

// ParseNotifyPayload splits a NOTIFY payload back into room and source.
// The table name follows the last colon, so room identifiers may
// themselves contain colons.
func ParseNotifyPayload(payload string) (roomID string, source models.Source, ok bool) {
	i := strings.LastIndex(payload, ":")
	if i <= 0 || i == len(payload)-1 {
		return "", "", false
	}
	return payload[:i], models.Source(payload[i+1:]), true
}
