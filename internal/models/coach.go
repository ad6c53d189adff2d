package models

// Coach is one selecting party in a room. Created at room setup and
// immutable while a draft runs.
type Coach struct {
	CoachID   int    `json:"coach_id"`
	CoachName string `json:"coach_name"`
}
