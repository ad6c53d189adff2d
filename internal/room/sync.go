package room

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/damoduke91-ui/super8-draft/internal/models"
)

// DefaultPollInterval is the fallback refresh cadence. Push signals
// normally arrive first; the poll guarantees convergence when they
// don't.
const DefaultPollInterval = 1200 * time.Millisecond

// Notifier establishes per-room change subscriptions. The returned
// function tears the subscription down.
type Notifier interface {
	SubscribeRoom(roomID string, handler func(models.Source)) (func(), error)
}

// SyncController keeps an engine's snapshots converging. Two trigger
// sources feed the same idempotent refresh: change signals pushed per
// source, and an unconditional fixed-interval poll of all four. All
// refreshes run on the controller goroutine, one at a time.
type SyncController struct {
	engine       *Engine
	notifier     Notifier
	clock        clockwork.Clock
	pollInterval time.Duration

	signalCh chan models.Source
	roomCh   chan string
}

// SyncOptions tune a controller. Zero values pick the defaults.
type SyncOptions struct {
	PollInterval time.Duration
	Clock        clockwork.Clock
}

// NewSyncController creates a controller for the engine.
func NewSyncController(engine *Engine, notifier Notifier, opts SyncOptions) *SyncController {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &SyncController{
		engine:       engine,
		notifier:     notifier,
		clock:        opts.Clock,
		pollInterval: opts.PollInterval,
		signalCh:     make(chan models.Source, 64),
		roomCh:       make(chan string, 1),
	}
}

// SetRoom asks the controller to follow another room. The switch
// happens on the controller goroutine: old subscriptions are torn
// down, new ones established, and the poll timer reset.
func (c *SyncController) SetRoom(roomID string) {
	c.roomCh <- roomID
}

// Run drives the controller until the context is cancelled. It
// subscribes, performs an initial full refresh, then reacts to change
// signals and poll ticks.
func (c *SyncController) Run(ctx context.Context) error {
	unsubscribe, err := c.subscribe(c.engine.RoomID())
	if err != nil {
		return err
	}
	defer func() { unsubscribe() }()

	ticker := c.clock.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.engine.RefreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("room_id", c.engine.RoomID()).Msg("sync controller shutting down")
			return nil

		case roomID := <-c.roomCh:
			if roomID == c.engine.RoomID() {
				continue
			}
			unsubscribe()
			c.engine.SwitchRoom(roomID)
			c.drainSignals()
			if unsubscribe, err = c.subscribe(roomID); err != nil {
				return err
			}
			ticker.Reset(c.pollInterval)
			c.engine.RefreshAll(ctx)

		case source := <-c.signalCh:
			c.engine.Refresh(ctx, source)

		case <-ticker.Chan():
			c.engine.RefreshAll(ctx)
		}
	}
}

// subscribe establishes the four per-source subscriptions for a room.
// The handler runs on the notifier's goroutine and must not block, so
// a full signal channel drops the signal; the poll covers the loss.
func (c *SyncController) subscribe(roomID string) (func(), error) {
	return c.notifier.SubscribeRoom(roomID, func(source models.Source) {
		select {
		case c.signalCh <- source:
		default:
			log.Warn().
				Str("room_id", roomID).
				Str("source", string(source)).
				Msg("signal channel full, dropping change signal")
		}
	})
}

// drainSignals discards signals queued for the previous room. Leftover
// signals would only trigger redundant refreshes of the new room, but
// there is no reason to do that work.
func (c *SyncController) drainSignals() {
	for {
		select {
		case <-c.signalCh:
		default:
			return
		}
	}
}
