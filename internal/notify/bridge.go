package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/damoduke91-ui/super8-draft/internal/store"
)

// BridgeConfig holds settings for the Postgres-to-NATS bridge.
type BridgeConfig struct {
	DatabaseURL  string        // Postgres DSN for LISTEN
	PingInterval time.Duration // keepalive for the LISTEN connection
	MinReconnect time.Duration
	MaxReconnect time.Duration
}

// DefaultBridgeConfig returns the usual bridge settings.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		PingInterval: 90 * time.Second,
		MinReconnect: 10 * time.Second,
		MaxReconnect: time.Minute,
	}
}

// Bridge listens on the draft_changes Postgres channel and republishes
// each signal to the matching NATS subject.
type Bridge struct {
	listener  *pq.Listener
	publisher *Publisher
	cfg       BridgeConfig
}

// NewBridge opens the LISTEN connection and starts listening on the
// change channel.
func NewBridge(cfg BridgeConfig, publisher *Publisher) (*Bridge, error) {
	listener := pq.NewListener(
		cfg.DatabaseURL,
		cfg.MinReconnect,
		cfg.MaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := listener.Listen(store.NotifyChannel); err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", store.NotifyChannel, err)
	}

	log.Info().
		Str("channel", store.NotifyChannel).
		Msg("listening for database change notifications")

	return &Bridge{
		listener:  listener,
		publisher: publisher,
		cfg:       cfg,
	}, nil
}

// Start pumps notifications until the context is cancelled.
func (b *Bridge) Start(ctx context.Context) error {
	pingTicker := time.NewTicker(b.cfg.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("notify bridge shutting down")
			return b.Stop()
		case note := <-b.listener.Notify:
			if note == nil {
				// Connection was lost and re-established; poll fallback
				// covers anything missed in between.
				continue
			}
			b.handleNotification(note.Extra)
		case <-pingTicker.C:
			if err := b.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

// Stop closes the LISTEN connection.
func (b *Bridge) Stop() error {
	return b.listener.Close()
}

func (b *Bridge) handleNotification(payload string) {
	roomID, source, ok := store.ParseNotifyPayload(payload)
	if !ok {
		log.Warn().Str("payload", payload).Msg("ignoring malformed change notification")
		return
	}

	if err := b.publisher.Publish(roomID, source); err != nil {
		log.Error().
			Err(err).
			Str("room_id", roomID).
			Str("source", string(source)).
			Msg("failed to republish change signal")
		return
	}

	log.Debug().
		Str("room_id", roomID).
		Str("source", string(source)).
		Msg("change signal republished")
}
