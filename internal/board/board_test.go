package board

import (
	"reflect"
	"testing"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

func intPtr(n int) *int { return &n }

func drafted(playerNo int, pos string, coachID, round, pick int) models.Player {
	return models.Player{
		PlayerNo:         playerNo,
		Pos:              pos,
		PlayerName:       "Player",
		DraftedByCoachID: intPtr(coachID),
		DraftedRound:     intPtr(round),
		DraftedPick:      intPtr(pick),
	}
}

func twoCoachState() *models.RoomState {
	return &models.RoomState{
		RoomID:             "ROOM1",
		RoundsTotal:        2,
		CurrentRound:       1,
		CurrentPickInRound: 1,
		CurrentCoachID:     1,
	}
}

func twoCoaches() []models.Coach {
	return []models.Coach{
		{CoachID: 1, CoachName: "A"},
		{CoachID: 2, CoachName: "B"},
	}
}

func TestReconcileLength(t *testing.T) {
	tests := []struct {
		name    string
		rounds  int
		coaches int
	}{
		{"two by two", 2, 2},
		{"full season", 46, 8},
		{"single coach room falls back to two", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &models.RoomState{RoundsTotal: tt.rounds, CurrentRound: 1, CurrentPickInRound: 1}
			var coaches []models.Coach
			for i := 1; i <= tt.coaches; i++ {
				coaches = append(coaches, models.Coach{CoachID: i})
			}

			got := Reconcile(state, coaches, nil, nil)

			wantCoaches := tt.coaches
			if wantCoaches == 0 {
				wantCoaches = 2
			}
			if len(got.Slots) != tt.rounds*wantCoaches {
				t.Errorf("len(Slots) = %d, want %d", len(got.Slots), tt.rounds*wantCoaches)
			}
		})
	}
}

func TestReconcileSparseOrder(t *testing.T) {
	// rounds_total=2 with coaches {1,2} and no draft_order rows: four
	// slots, none assigned, current slot is overall 1.
	got := Reconcile(twoCoachState(), twoCoaches(), nil, nil)

	if len(got.Slots) != 4 {
		t.Fatalf("len(Slots) = %d, want 4", len(got.Slots))
	}
	for _, slot := range got.Slots {
		if slot.CoachID != nil || slot.CoachName != "" {
			t.Errorf("slot %d has coach %v %q, want none", slot.Overall, slot.CoachID, slot.CoachName)
		}
		if slot.Player != nil {
			t.Errorf("slot %d occupied, want open", slot.Overall)
		}
	}
	if got.CurrentOverall != 1 {
		t.Errorf("CurrentOverall = %d, want 1", got.CurrentOverall)
	}
}

func TestReconcileResolvesCoachesAndPlayers(t *testing.T) {
	order := []models.DraftOrderRow{
		{OverallPick: 1, CoachID: 2},
		{OverallPick: 2, CoachID: 1},
		{OverallPick: 3, CoachID: 7}, // not in roster
	}
	players := []models.Player{
		drafted(10, "MID", 2, 1, 1),
		{PlayerNo: 11, Pos: "DEF"}, // undrafted
	}

	got := Reconcile(twoCoachState(), twoCoaches(), order, players)

	if got.Slots[0].CoachName != "B" {
		t.Errorf("slot 1 coach = %q, want B", got.Slots[0].CoachName)
	}
	if got.Slots[0].Player == nil || got.Slots[0].Player.PlayerNo != 10 {
		t.Errorf("slot 1 player = %+v, want player 10", got.Slots[0].Player)
	}
	if got.Slots[1].Player != nil {
		t.Errorf("slot 2 occupied, want open")
	}
	if got.Slots[2].CoachName != "Coach 7" {
		t.Errorf("slot 3 coach = %q, want fallback name", got.Slots[2].CoachName)
	}
	if got.Slots[3].CoachID != nil {
		t.Errorf("slot 4 assigned, want none")
	}
}

func TestReconcileDeterministic(t *testing.T) {
	order := []models.DraftOrderRow{{OverallPick: 1, CoachID: 1}, {OverallPick: 2, CoachID: 2}}
	players := []models.Player{drafted(10, "MID", 1, 1, 1), {PlayerNo: 11, Pos: "DEF"}}

	first := Reconcile(twoCoachState(), twoCoaches(), order, players)
	second := Reconcile(twoCoachState(), twoCoaches(), order, players)

	if !reflect.DeepEqual(first, second) {
		t.Error("two reconciliations of identical inputs differ")
	}
}

func TestReconcilePartialOutcomeFields(t *testing.T) {
	// A row with only drafted_round set must not occupy a slot.
	players := []models.Player{{PlayerNo: 10, Pos: "MID", DraftedRound: intPtr(1)}}

	got := Reconcile(twoCoachState(), twoCoaches(), nil, players)
	for _, slot := range got.Slots {
		if slot.Player != nil {
			t.Fatalf("slot %d occupied by partially-drafted player", slot.Overall)
		}
	}
}

func TestReconcileCurrentOverall(t *testing.T) {
	state := twoCoachState()
	state.CurrentRound = 2
	state.CurrentPickInRound = 2

	got := Reconcile(state, twoCoaches(), nil, nil)
	if got.CurrentOverall != 4 {
		t.Errorf("CurrentOverall = %d, want 4", got.CurrentOverall)
	}
}

func TestReconcileNilState(t *testing.T) {
	got := Reconcile(nil, twoCoaches(), nil, nil)
	if got.CurrentOverall != 0 {
		t.Errorf("CurrentOverall = %d, want 0 while state is absent", got.CurrentOverall)
	}
	if len(got.Slots) != 46*2 {
		t.Errorf("len(Slots) = %d, want default 92", len(got.Slots))
	}
}

func TestAvailablePlayers(t *testing.T) {
	players := []models.Player{
		{PlayerNo: 3, Pos: "MID/FWD", PlayerName: "Carl", Club: "North", Average: 80},
		{PlayerNo: 1, Pos: "DEF", PlayerName: "Alice", Club: "South", Average: 95},
		{PlayerNo: 2, Pos: "DEF/KD", PlayerName: "Bob", Club: "East", Average: 70},
		drafted(4, "MID", 1, 1, 1),
	}

	all := AvailablePlayers(players, "ALL", SortByPlayerNo, false)
	if len(all) != 3 {
		t.Fatalf("ALL tab: %d players, want 3 (drafted excluded)", len(all))
	}
	if all[0].PlayerNo != 1 || all[2].PlayerNo != 3 {
		t.Errorf("ALL tab not sorted by player_no: %v", all)
	}

	def := AvailablePlayers(players, "DEF", SortByPlayerNo, false)
	if len(def) != 1 || def[0].PlayerNo != 1 {
		t.Errorf("DEF tab = %v, want only player 1 (KD excluded)", def)
	}

	byAvgDesc := AvailablePlayers(players, "ALL", SortByAverage, true)
	if byAvgDesc[0].Average != 95 {
		t.Errorf("average desc: first = %v, want 95", byAvgDesc[0].Average)
	}

	byName := AvailablePlayers(players, "ALL", SortByPlayerName, false)
	if byName[0].PlayerName != "Alice" {
		t.Errorf("name asc: first = %q, want Alice", byName[0].PlayerName)
	}
}

func TestCoachSheet(t *testing.T) {
	players := []models.Player{
		drafted(10, "MID", 1, 2, 1),
		drafted(11, "DEF", 1, 1, 2),
		drafted(12, "FWD", 2, 1, 1),
		{PlayerNo: 13, Pos: "RUC"},
	}

	sheet := CoachSheet(players, 1, 4)
	if len(sheet) != 4 {
		t.Fatalf("len(sheet) = %d, want 4", len(sheet))
	}
	if sheet[0].Player == nil || sheet[0].Player.PlayerNo != 11 {
		t.Errorf("first sheet slot = %+v, want round-1 pick 11", sheet[0].Player)
	}
	if sheet[1].Player == nil || sheet[1].Player.PlayerNo != 10 {
		t.Errorf("second sheet slot = %+v, want round-2 pick 10", sheet[1].Player)
	}
	if sheet[2].Player != nil || sheet[3].Player != nil {
		t.Error("trailing sheet slots should be empty")
	}
}
