package board

import (
	"sort"
	"strings"

	"github.com/damoduke91-ui/super8-draft/internal/models"
	"github.com/damoduke91-ui/super8-draft/internal/positions"
)

// Sort keys accepted by AvailablePlayers.
const (
	SortByPlayerNo   = "player_no"
	SortByPlayerName = "player_name"
	SortByClub       = "club"
	SortByAverage    = "average"
)

// AvailablePlayers returns the undrafted players matching the position
// tab, sorted by the given key and direction. Unknown sort keys fall
// back to player_no ascending.
func AvailablePlayers(players []models.Player, tab, sortKey string, descending bool) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.Drafted() {
			continue
		}
		if !positions.Matches(p.Pos, tab) {
			continue
		}
		out = append(out, p)
	}

	less := lessFunc(sortKey)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			i, j = j, i
		}
		return less(&out[i], &out[j])
	})

	return out
}

func lessFunc(sortKey string) func(a, b *models.Player) bool {
	switch sortKey {
	case SortByPlayerName:
		return func(a, b *models.Player) bool {
			return strings.Compare(a.PlayerName, b.PlayerName) < 0
		}
	case SortByClub:
		return func(a, b *models.Player) bool {
			return strings.Compare(a.Club, b.Club) < 0
		}
	case SortByAverage:
		return func(a, b *models.Player) bool { return a.Average < b.Average }
	default:
		return func(a, b *models.Player) bool { return a.PlayerNo < b.PlayerNo }
	}
}
