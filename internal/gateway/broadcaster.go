package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/damoduke91-ui/super8-draft/internal/room"
)

// DefaultBroadcastInterval is how often the broadcaster checks watched
// rooms for a changed view. It sits well under the sync poll interval
// so push-triggered refreshes reach clients promptly.
const DefaultBroadcastInterval = 250 * time.Millisecond

// Broadcaster pushes the room view to WebSocket clients. It watches
// every room that has at least one connection and broadcasts the
// marshalled view whenever the snapshot version moves.
type Broadcaster struct {
	manager  *room.Manager
	cm       *ConnectionManager
	clock    clockwork.Clock
	interval time.Duration

	lastSent map[string]uint64
}

// NewBroadcaster creates a broadcaster. A nil clock means wall clock;
// a non-positive interval picks the default.
func NewBroadcaster(manager *room.Manager, cm *ConnectionManager, clock clockwork.Clock, interval time.Duration) *Broadcaster {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}
	return &Broadcaster{
		manager:  manager,
		cm:       cm,
		clock:    clock,
		interval: interval,
		lastSent: make(map[string]uint64),
	}
}

// Run drives the broadcaster until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := b.clock.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("broadcaster shutting down")
			return
		case <-ticker.Chan():
			b.sweep()
		}
	}
}

// sweep broadcasts the view of every watched room whose version moved
// since the last send, and forgets rooms nobody watches anymore.
func (b *Broadcaster) sweep() {
	watched := make(map[string]bool)
	for _, roomID := range b.cm.Rooms() {
		watched[roomID] = true

		view := b.manager.Engine(roomID).View()
		if last, ok := b.lastSent[roomID]; ok && last == view.Version {
			continue
		}

		data, err := json.Marshal(view)
		if err != nil {
			log.Error().Err(err).Str("room_id", roomID).Msg("failed to marshal view")
			continue
		}
		b.cm.BroadcastToRoom(roomID, data)
		b.lastSent[roomID] = view.Version
	}

	for roomID := range b.lastSent {
		if !watched[roomID] {
			delete(b.lastSent, roomID)
		}
	}
}
