package models

// RoomState is one row of the draft_state table: the authoritative turn
// position and pause status for a single room.
type RoomState struct {
	RoomID             string  `json:"room_id"`
	IsPaused           bool    `json:"is_paused"`
	PauseReason        *string `json:"pause_reason,omitempty"`
	RoundsTotal        int     `json:"rounds_total"`
	CurrentRound       int     `json:"current_round"`
	CurrentPickInRound int     `json:"current_pick_in_round"`
	CurrentCoachID     int     `json:"current_coach_id"`
}
