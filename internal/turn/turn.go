// Package turn makes the draft lifecycle explicit. The database encodes
// it as an is_paused flag plus a free-form pause_reason tag; this
// package decodes that pair into a closed set of phases so the waiting
// sub-state and its round range are first-class values instead of
// string checks scattered around call sites.
package turn

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

// Phase is the lifecycle phase of a draft room.
type Phase string

const (
	// PhaseLive accepts selections.
	PhaseLive Phase = "LIVE"
	// PhasePausedManual is an explicit administrative pause.
	PhasePausedManual Phase = "PAUSED_MANUAL"
	// PhasePausedWaiting means the draft reached a slot with no
	// draft_order row; the draft_pick transaction detects this and
	// records it as a WAIT_BLOCK pause reason. We only surface it.
	PhasePausedWaiting Phase = "PAUSED_WAITING"
)

// WaitBlockPrefix marks a pause_reason that encodes the waiting
// sub-state; the remainder names the affected round range.
const WaitBlockPrefix = "WAIT_BLOCK_"

// ManualPauseReason is the tag an admin pause writes.
const ManualPauseReason = "Paused"

// Selection pre-check failures. Advisory only: draft_pick re-validates
// inside its transaction and remains the authority.
var (
	ErrNoState         = errors.New("room state not loaded")
	ErrPaused          = errors.New("draft is paused")
	ErrWaitingForOrder = errors.New("waiting for draft order")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrAlreadyDrafted  = errors.New("player already drafted")
)

// Status is the decoded lifecycle state of a room.
type Status struct {
	Phase Phase `json:"phase"`
	// WaitingRounds is the round range from a WAIT_BLOCK pause reason,
	// e.g. "11-20". Set only when Phase is PhasePausedWaiting.
	WaitingRounds string `json:"waiting_rounds,omitempty"`
}

// DecodeStatus derives the phase from the raw pause flag and reason.
func DecodeStatus(state *models.RoomState) Status {
	if state == nil || !state.IsPaused {
		return Status{Phase: PhaseLive}
	}

	if state.PauseReason != nil && strings.HasPrefix(*state.PauseReason, WaitBlockPrefix) {
		return Status{
			Phase:         PhasePausedWaiting,
			WaitingRounds: strings.TrimPrefix(*state.PauseReason, WaitBlockPrefix),
		}
	}

	return Status{Phase: PhasePausedManual}
}

// Label renders the status for display surfaces.
func (s Status) Label() string {
	switch s.Phase {
	case PhasePausedWaiting:
		return fmt.Sprintf("Waiting for Admin to set draft order for rounds %s", s.WaitingRounds)
	case PhasePausedManual:
		return "Paused"
	default:
		return "Live"
	}
}

// Live reports whether selections are currently accepted.
func (s Status) Live() bool {
	return s.Phase == PhaseLive
}

// CheckPick is the local legality gate for a selection attempt by
// coachID. It rejects attempts that cannot possibly succeed so they
// never reach draft_pick; a nil return does not guarantee the remote
// transaction accepts the pick.
func CheckPick(state *models.RoomState, player *models.Player, coachID int) error {
	if state == nil {
		return ErrNoState
	}

	status := DecodeStatus(state)
	switch status.Phase {
	case PhasePausedWaiting:
		return ErrWaitingForOrder
	case PhasePausedManual:
		return ErrPaused
	}

	if state.CurrentCoachID != coachID {
		return ErrNotYourTurn
	}

	if player != nil && player.Drafted() {
		return ErrAlreadyDrafted
	}

	return nil
}

// ResetCoachID returns the coach on the clock after a draft reset: the
// lowest coach_id in the room, or 1 when the roster is empty.
func ResetCoachID(coaches []models.Coach) int {
	if len(coaches) == 0 {
		return 1
	}

	ids := make([]int, len(coaches))
	for i, c := range coaches {
		ids[i] = c.CoachID
	}
	sort.Ints(ids)
	return ids[0]
}
