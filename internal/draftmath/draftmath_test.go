package draftmath

import "testing"

func TestOverallPick(t *testing.T) {
	tests := []struct {
		name        string
		coachCount  int
		round       int
		pickInRound int
		want        int
	}{
		{"first pick", 8, 1, 1, 1},
		{"end of first round", 8, 1, 8, 8},
		{"start of second round", 8, 2, 1, 9},
		{"two coaches round two", 2, 2, 2, 4},
		{"single coach", 1, 5, 1, 5},
		{"deep round", 10, 46, 7, 457},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverallPick(tt.coachCount, tt.round, tt.pickInRound)
			if got != tt.want {
				t.Errorf("OverallPick(%d, %d, %d) = %d, want %d",
					tt.coachCount, tt.round, tt.pickInRound, got, tt.want)
			}
		})
	}
}

func TestRoundPick(t *testing.T) {
	tests := []struct {
		name       string
		coachCount int
		overall    int
		wantRound  int
		wantPick   int
	}{
		{"first pick", 8, 1, 1, 1},
		{"end of first round", 8, 8, 1, 8},
		{"start of second round", 8, 9, 2, 1},
		{"single coach", 1, 5, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round, pick := RoundPick(tt.coachCount, tt.overall)
			if round != tt.wantRound || pick != tt.wantPick {
				t.Errorf("RoundPick(%d, %d) = (%d, %d), want (%d, %d)",
					tt.coachCount, tt.overall, round, pick, tt.wantRound, tt.wantPick)
			}
		})
	}
}

// Mapping to overall and back must return the original pair for every
// valid (round, pick) across a range of room sizes.
func TestRoundTripIdentity(t *testing.T) {
	for coachCount := 1; coachCount <= 18; coachCount++ {
		for round := 1; round <= 50; round++ {
			for pick := 1; pick <= coachCount; pick++ {
				overall := OverallPick(coachCount, round, pick)
				gotRound, gotPick := RoundPick(coachCount, overall)
				if gotRound != round || gotPick != pick {
					t.Fatalf("round trip broke: n=%d (%d,%d) -> %d -> (%d,%d)",
						coachCount, round, pick, overall, gotRound, gotPick)
				}
			}
		}
	}
}

func TestOverallPickSequential(t *testing.T) {
	// Overall numbers must be dense: walking rounds and picks in order
	// yields 1, 2, 3, ... with no gaps.
	const coachCount = 6
	want := 1
	for round := 1; round <= 4; round++ {
		for pick := 1; pick <= coachCount; pick++ {
			if got := OverallPick(coachCount, round, pick); got != want {
				t.Fatalf("OverallPick(%d, %d, %d) = %d, want %d", coachCount, round, pick, got, want)
			}
			want++
		}
	}
}
