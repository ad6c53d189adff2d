package room

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Manager hands out one engine per room, starting a sync controller
// for each room the first time it is requested. All observers and
// writers of a room share the same engine and therefore the same
// snapshots.
type Manager struct {
	store    Store
	notifier Notifier
	opts     SyncOptions

	mu    sync.Mutex
	rooms map[string]*managedRoom
}

type managedRoom struct {
	engine *Engine
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a manager.
func NewManager(store Store, notifier Notifier, opts SyncOptions) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		opts:     opts,
		rooms:    make(map[string]*managedRoom),
	}
}

// Engine returns the engine for a room, creating it and starting its
// sync controller on first use. Controllers live until Close or
// Shutdown, independent of whichever request opened the room.
func (m *Manager) Engine(roomID string) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.rooms[roomID]; ok {
		return r.engine
	}

	engine := NewEngine(m.store, roomID)
	controller := NewSyncController(engine, m.notifier, m.opts)

	runCtx, cancel := context.WithCancel(context.Background())
	r := &managedRoom{
		engine: engine,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.rooms[roomID] = r

	go func() {
		defer close(r.done)
		if err := controller.Run(runCtx); err != nil {
			log.Error().Err(err).Str("room_id", roomID).Msg("sync controller exited")
		}
	}()

	log.Info().Str("room_id", roomID).Msg("room opened")
	return engine
}

// Close stops the sync controller of one room and forgets it.
func (m *Manager) Close(roomID string) {
	m.mu.Lock()
	r, ok := m.rooms[roomID]
	if ok {
		delete(m.rooms, roomID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	r.cancel()
	<-r.done
	log.Info().Str("room_id", roomID).Msg("room closed")
}

// Shutdown stops every room's sync controller.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]*managedRoom)
	m.mu.Unlock()

	for roomID, r := range rooms {
		r.cancel()
		<-r.done
		log.Info().Str("room_id", roomID).Msg("room closed")
	}
}
