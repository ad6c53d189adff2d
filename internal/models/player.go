package models

// Player is one draftable unit in a room. The three Drafted* fields are
// set together by the draft_pick transaction and cleared together by a
// draft reset; they are never written individually.
type Player struct {
	PlayerNo         int     `json:"player_no"`
	Pos              string  `json:"pos"` // possibly multi-valued, "/"-delimited
	Club             string  `json:"club"`
	PlayerName       string  `json:"player_name"`
	Average          float64 `json:"average"`
	DraftedByCoachID *int    `json:"drafted_by_coach_id,omitempty"`
	DraftedRound     *int    `json:"drafted_round,omitempty"`
	DraftedPick      *int    `json:"drafted_pick,omitempty"`
}

// Drafted reports whether the player has been taken. A row with only
// some of the outcome fields set is treated as undrafted rather than
// trusted; a correct draft_pick transaction never produces one.
func (p *Player) Drafted() bool {
	return p.DraftedByCoachID != nil && p.DraftedRound != nil && p.DraftedPick != nil
}
