// Package board projects the four room snapshots into the ordered
// draft board shown on every display surface.
//
// The projection is total and stateless: it always emits one slot per
// overall pick from 1 to rounds_total x coach count, no matter how
// sparse the draft order or player outcomes are, and identical inputs
// always produce identical output. The four inputs may be mutually
// stale by up to one refresh interval; nothing here depends on their
// relative freshness.
package board

import (
	"strconv"

	"github.com/damoduke91-ui/super8-draft/internal/draftmath"
	"github.com/damoduke91-ui/super8-draft/internal/models"
)

// Defaults used while a room's state or roster has not loaded yet.
const (
	defaultRoundsTotal = 46
	defaultCoachCount  = 2
)

// Slot is one derived board row. It is never persisted and never
// authoritative; it is recomputed wholesale on every refresh.
type Slot struct {
	Overall     int            `json:"overall"`
	Round       int            `json:"round"`
	PickInRound int            `json:"pick_in_round"`
	CoachID     *int           `json:"coach_id,omitempty"`
	CoachName   string         `json:"coach_name,omitempty"`
	Player      *models.Player `json:"player,omitempty"`
}

// Board is the reconciled view of one room.
type Board struct {
	Slots []Slot `json:"slots"`
	// CurrentOverall is the slot on the clock, 0 while state is absent.
	CurrentOverall int `json:"current_overall"`
	CoachCount     int `json:"coach_count"`
	RoundsTotal    int `json:"rounds_total"`
}

// Reconcile merges room state, coach roster, draft order and player
// outcomes into the full slot sequence.
func Reconcile(state *models.RoomState, coaches []models.Coach, order []models.DraftOrderRow, players []models.Player) Board {
	coachCount := len(coaches)
	if coachCount == 0 {
		coachCount = defaultCoachCount
	}

	roundsTotal := defaultRoundsTotal
	if state != nil {
		roundsTotal = state.RoundsTotal
	}

	coachNames := make(map[int]string, len(coaches))
	for _, c := range coaches {
		coachNames[c.CoachID] = c.CoachName
	}

	orderByOverall := make(map[int]int, len(order))
	for _, row := range order {
		orderByOverall[row.OverallPick] = row.CoachID
	}

	playerByOverall := make(map[int]*models.Player, len(players))
	for i := range players {
		p := &players[i]
		if !p.Drafted() {
			continue
		}
		playerByOverall[draftmath.OverallPick(coachCount, *p.DraftedRound, *p.DraftedPick)] = p
	}

	total := roundsTotal * coachCount
	slots := make([]Slot, 0, total)
	for overall := 1; overall <= total; overall++ {
		round, pickInRound := draftmath.RoundPick(coachCount, overall)

		slot := Slot{
			Overall:     overall,
			Round:       round,
			PickInRound: pickInRound,
			Player:      playerByOverall[overall],
		}

		if coachID, ok := orderByOverall[overall]; ok {
			id := coachID
			slot.CoachID = &id
			slot.CoachName = CoachName(coachNames, coachID)
		}

		slots = append(slots, slot)
	}

	b := Board{
		Slots:       slots,
		CoachCount:  coachCount,
		RoundsTotal: roundsTotal,
	}
	if state != nil {
		b.CurrentOverall = draftmath.OverallPick(coachCount, state.CurrentRound, state.CurrentPickInRound)
	}
	return b
}

// CoachName resolves a display name with the usual "Coach <id>"
// fallback for ids missing from the roster snapshot.
func CoachName(names map[int]string, coachID int) string {
	if name, ok := names[coachID]; ok {
		return name
	}
	return "Coach " + strconv.Itoa(coachID)
}
