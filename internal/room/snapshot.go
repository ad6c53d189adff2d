package room

import (
	"reflect"
	"sync"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

// Snapshots holds the four in-memory source snapshots of one room.
// Each snapshot is replaced wholesale and never mutated in place, so a
// reader always sees one internally consistent set per source. The
// four sets may be mutually stale by up to one refresh interval; the
// board projection tolerates that.
//
// A Snapshots value is bound to the room it was created for. When the
// engine switches rooms it swaps in a fresh value, so refreshes still
// in flight for the old room land on the abandoned value and stay
// invisible.
type Snapshots struct {
	mu      sync.RWMutex
	roomID  string
	version uint64

	state   *models.RoomState
	coaches []models.Coach
	players []models.Player
	order   []models.DraftOrderRow
}

// NewSnapshots creates an empty snapshot set for a room.
func NewSnapshots(roomID string) *Snapshots {
	return &Snapshots{roomID: roomID}
}

// RoomID returns the room this snapshot set belongs to.
func (s *Snapshots) RoomID() string {
	return s.roomID
}

// Version increments whenever a replacement actually changes a
// snapshot. Identical re-fetches leave it alone, so broadcasters can
// use it as a change detector.
func (s *Snapshots) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetState replaces the room state snapshot.
func (s *Snapshots) SetState(state *models.RoomState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reflect.DeepEqual(s.state, state) {
		return
	}
	s.state = state
	s.version++
}

// SetCoaches replaces the coach roster snapshot.
func (s *Snapshots) SetCoaches(coaches []models.Coach) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reflect.DeepEqual(s.coaches, coaches) {
		return
	}
	s.coaches = coaches
	s.version++
}

// SetPlayers replaces the player snapshot.
func (s *Snapshots) SetPlayers(players []models.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reflect.DeepEqual(s.players, players) {
		return
	}
	s.players = players
	s.version++
}

// SetOrder replaces the draft order snapshot.
func (s *Snapshots) SetOrder(order []models.DraftOrderRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reflect.DeepEqual(s.order, order) {
		return
	}
	s.order = order
	s.version++
}

// Read returns all four snapshots plus the version, consistent with a
// single lock acquisition. The returned slices are the stored ones and
// must be treated as read-only; every writer replaces rather than
// mutates, so this is safe.
func (s *Snapshots) Read() (state *models.RoomState, coaches []models.Coach, players []models.Player, order []models.DraftOrderRow, version uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.coaches, s.players, s.order, s.version
}

// Player looks up a player by number in the current snapshot. Returns
// nil when the player is unknown.
func (s *Snapshots) Player(playerNo int) *models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.players {
		if s.players[i].PlayerNo == playerNo {
			p := s.players[i]
			return &p
		}
	}
	return nil
}

// State returns the current room state snapshot.
func (s *Snapshots) State() *models.RoomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
