// Package draftmath holds the single conversion between (round, pick
// in round) and the 1-based overall pick number. Every pick index in
// the repository goes through these two functions.
//
// No snake-order inversion happens here: who picks at an overall slot
// is resolved from draft_order rows, never by flipping direction.
package draftmath

// OverallPick converts round r and pick-in-round p to the overall pick
// number for a room with coachCount coaches.
func OverallPick(coachCount, round, pickInRound int) int {
	return (round-1)*coachCount + pickInRound
}

// RoundPick is the inverse of OverallPick.
func RoundPick(coachCount, overall int) (round, pickInRound int) {
	round = (overall-1)/coachCount + 1
	pickInRound = (overall-1)%coachCount + 1
	return round, pickInRound
}
