package models

// DraftOrderRow assigns a coach to one overall pick number. Rows may be
// absent for rounds the admin has not configured yet; the draft pauses
// in the waiting sub-state when play reaches the gap.
type DraftOrderRow struct {
	OverallPick int `json:"overall_pick"`
	CoachID     int `json:"coach_id"`
}

// PickResult is the structured result of the draft_pick procedure, the
// sole writer of player outcome fields and turn advancement.
type PickResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
