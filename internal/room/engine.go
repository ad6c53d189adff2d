// Package room ties the draft engine together: it keeps the four
// per-room snapshots fresh, derives the board view every surface
// renders, pre-checks selection attempts, and forwards admin actions
// to the store.
//
// Local state is never written optimistically. Every mutation goes
// through the store, and its effect becomes visible only when the next
// refresh (push-triggered or poll-triggered) replaces a snapshot. The
// store's draft_pick transaction stays the single authority on turn
// order.
package room

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/damoduke91-ui/super8-draft/internal/board"
	"github.com/damoduke91-ui/super8-draft/internal/models"
	"github.com/damoduke91-ui/super8-draft/internal/turn"
)

// Store is what the engine needs from the persistent store.
type Store interface {
	FetchState(ctx context.Context, roomID string) (*models.RoomState, error)
	FetchCoaches(ctx context.Context, roomID string) ([]models.Coach, error)
	FetchPlayers(ctx context.Context, roomID string) ([]models.Player, error)
	FetchDraftOrder(ctx context.Context, roomID string) ([]models.DraftOrderRow, error)
	DraftPick(ctx context.Context, roomID string, playerNo, coachID int, overrideTurn bool) (models.PickResult, error)
	SetPaused(ctx context.Context, roomID string, paused bool) error
	SetRoundsTotal(ctx context.Context, roomID string, rounds int) error
	ResetDraft(ctx context.Context, roomID string) error
}

// View is the derived model consumed by display surfaces. It is
// recomputed from the snapshots on demand and never stored.
type View struct {
	RoomID     string            `json:"room_id"`
	Version    uint64            `json:"version"`
	State      *models.RoomState `json:"state,omitempty"`
	Status     turn.Status       `json:"status"`
	// StatusLabel is the banner text for the current phase, including
	// the waiting-for-order message with its round range.
	StatusLabel string      `json:"status_label"`
	StatusLine  string      `json:"status_line"`
	Board       board.Board `json:"board"`
}

// Engine drives one room at a time.
type Engine struct {
	store Store

	mu        sync.RWMutex
	snapshots *Snapshots
}

// NewEngine creates an engine for the given room.
func NewEngine(store Store, roomID string) *Engine {
	return &Engine{
		store:     store,
		snapshots: NewSnapshots(roomID),
	}
}

// RoomID returns the room the engine currently follows.
func (e *Engine) RoomID() string {
	return e.current().RoomID()
}

// SwitchRoom points the engine at another room, abandoning all loaded
// snapshots. Refreshes still in flight for the old room complete
// against the abandoned snapshot set and never surface.
func (e *Engine) SwitchRoom(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snapshots.RoomID() == roomID {
		return
	}
	e.snapshots = NewSnapshots(roomID)
	log.Info().Str("room_id", roomID).Msg("engine switched rooms")
}

func (e *Engine) current() *Snapshots {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshots
}

// Refresh re-fetches one source in full and replaces its snapshot. A
// fetch failure keeps the prior snapshot and is only logged; the next
// poll tick or change signal retries. Refresh is idempotent, so
// overlapping refreshes of the same source are harmless.
func (e *Engine) Refresh(ctx context.Context, source models.Source) {
	snaps := e.current()
	roomID := snaps.RoomID()

	var err error
	switch source {
	case models.SourceState:
		var state *models.RoomState
		if state, err = e.store.FetchState(ctx, roomID); err == nil {
			snaps.SetState(state)
		}
	case models.SourceCoaches:
		var coaches []models.Coach
		if coaches, err = e.store.FetchCoaches(ctx, roomID); err == nil {
			snaps.SetCoaches(coaches)
		}
	case models.SourcePlayers:
		var players []models.Player
		if players, err = e.store.FetchPlayers(ctx, roomID); err == nil {
			snaps.SetPlayers(players)
		}
	case models.SourceOrder:
		var order []models.DraftOrderRow
		if order, err = e.store.FetchDraftOrder(ctx, roomID); err == nil {
			snaps.SetOrder(order)
		}
	default:
		log.Warn().Str("source", string(source)).Msg("ignoring refresh for unknown source")
		return
	}

	if err != nil {
		log.Error().
			Err(err).
			Str("room_id", roomID).
			Str("source", string(source)).
			Msg("refresh failed, keeping prior snapshot")
	}
}

// RefreshAll re-fetches every source once.
func (e *Engine) RefreshAll(ctx context.Context) {
	for _, source := range models.Sources {
		e.Refresh(ctx, source)
	}
}

// View reconciles the current snapshots into the displayable model.
func (e *Engine) View() View {
	snaps := e.current()
	state, coaches, players, order, version := snaps.Read()

	status := turn.DecodeStatus(state)
	b := board.Reconcile(state, coaches, order, players)

	return View{
		RoomID:      snaps.RoomID(),
		Version:     version,
		State:       state,
		Status:      status,
		StatusLabel: status.Label(),
		StatusLine:  statusLine(snaps.RoomID(), state, coaches, b.CoachCount),
		Board:       b,
	}
}

// AvailablePlayers lists undrafted players for the given position tab
// and sort order from the current snapshot.
func (e *Engine) AvailablePlayers(tab, sortKey string, descending bool) []models.Player {
	_, _, players, _, _ := e.current().Read()
	return board.AvailablePlayers(players, tab, sortKey, descending)
}

// CoachSheet builds one coach's personal pick sheet from the current
// snapshot.
func (e *Engine) CoachSheet(coachID int) []board.SheetSlot {
	state, _, players, _, _ := e.current().Read()
	roundsTotal := 46
	if state != nil {
		roundsTotal = state.RoundsTotal
	}
	return board.CoachSheet(players, coachID, roundsTotal)
}

// SubmitPick validates a selection attempt locally and, when it could
// plausibly succeed, commits it through the store. The override-turn
// flag is always false: no forced pick path exists here. Local state
// is never touched; the committed pick becomes visible on the next
// snapshot refresh.
func (e *Engine) SubmitPick(ctx context.Context, coachID, playerNo int) models.PickResult {
	snaps := e.current()

	if err := turn.CheckPick(snaps.State(), snaps.Player(playerNo), coachID); err != nil {
		log.Debug().
			Err(err).
			Str("room_id", snaps.RoomID()).
			Int("coach_id", coachID).
			Int("player_no", playerNo).
			Msg("pick rejected locally")
		return models.PickResult{OK: false, Message: err.Error()}
	}

	result, err := e.store.DraftPick(ctx, snaps.RoomID(), playerNo, coachID, false)
	if err != nil {
		log.Error().
			Err(err).
			Str("room_id", snaps.RoomID()).
			Int("coach_id", coachID).
			Int("player_no", playerNo).
			Msg("draft_pick call failed")
		return models.PickResult{OK: false, Message: fmt.Sprintf("draft failed: %v", err)}
	}

	if !result.OK {
		log.Info().
			Str("room_id", snaps.RoomID()).
			Int("coach_id", coachID).
			Int("player_no", playerNo).
			Str("message", result.Message).
			Msg("draft_pick rejected")
	}
	return result
}

// Pause pauses the room and refreshes state immediately so the caller
// sees the effect without waiting for a signal.
func (e *Engine) Pause(ctx context.Context) error {
	if err := e.store.SetPaused(ctx, e.RoomID(), true); err != nil {
		return err
	}
	e.Refresh(ctx, models.SourceState)
	return nil
}

// Resume resumes the room.
func (e *Engine) Resume(ctx context.Context) error {
	if err := e.store.SetPaused(ctx, e.RoomID(), false); err != nil {
		return err
	}
	e.Refresh(ctx, models.SourceState)
	return nil
}

// SetRoundsTotal updates the room's round count.
func (e *Engine) SetRoundsTotal(ctx context.Context, rounds int) error {
	if err := e.store.SetRoundsTotal(ctx, e.RoomID(), rounds); err != nil {
		return err
	}
	e.Refresh(ctx, models.SourceState)
	return nil
}

// Reset reverts the draft. Afterwards the room is paused at round 1
// pick 1 with the lowest coach_id on the clock, all players undrafted
// and the draft order cleared.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.store.ResetDraft(ctx, e.RoomID()); err != nil {
		return err
	}
	e.RefreshAll(ctx)
	return nil
}

// statusLine renders the one-line room summary shown on every surface.
func statusLine(roomID string, state *models.RoomState, coaches []models.Coach, coachCount int) string {
	if state == nil {
		return fmt.Sprintf("Room %s • Loading…", roomID)
	}

	names := make(map[int]string, len(coaches))
	for _, c := range coaches {
		names[c.CoachID] = c.CoachName
	}

	live := "LIVE"
	if state.IsPaused {
		live = "PAUSED"
	}

	return fmt.Sprintf("Room %s • Round %d/%d • Pick %d/%d • On the clock: %s • %s",
		roomID, state.CurrentRound, state.RoundsTotal,
		state.CurrentPickInRound, coachCount,
		board.CoachName(names, state.CurrentCoachID), live)
}
