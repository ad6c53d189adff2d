package board

import (
	"sort"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

// SheetSlot is one row of a coach's personal draft sheet.
type SheetSlot struct {
	SlotNo int            `json:"slot_no"`
	Player *models.Player `json:"player,omitempty"`
}

// CoachSheet lists the picks one coach has made, ordered by when they
// were taken and padded with empty slots up to roundsTotal.
func CoachSheet(players []models.Player, coachID, roundsTotal int) []SheetSlot {
	var picks []*models.Player
	for i := range players {
		p := &players[i]
		if p.Drafted() && *p.DraftedByCoachID == coachID {
			picks = append(picks, p)
		}
	}

	sort.Slice(picks, func(i, j int) bool {
		if *picks[i].DraftedRound != *picks[j].DraftedRound {
			return *picks[i].DraftedRound < *picks[j].DraftedRound
		}
		return *picks[i].DraftedPick < *picks[j].DraftedPick
	})

	sheet := make([]SheetSlot, roundsTotal)
	for i := range sheet {
		sheet[i].SlotNo = i + 1
		if i < len(picks) {
			sheet[i].Player = picks[i]
		}
	}
	return sheet
}
