// draftroomd serves draft rooms: a Postgres-backed store, a
// LISTEN/NOTIFY to NATS bridge, per-room sync controllers, and the
// HTTP plus WebSocket gateway.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/damoduke91-ui/super8-draft/internal/config"
	"github.com/damoduke91-ui/super8-draft/internal/gateway"
	"github.com/damoduke91-ui/super8-draft/internal/notify"
	"github.com/damoduke91-ui/super8-draft/internal/room"
	"github.com/damoduke91-ui/super8-draft/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("draftroomd exited")
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DB.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	log.Info().Str("database", cfg.DB.Database).Str("host", cfg.DB.Host).Msg("connected to database")

	nc, err := nats.Connect(cfg.NATSURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}
	defer nc.Close()
	log.Info().Str("url", cfg.NATSURL).Msg("connected to NATS")

	pg := store.NewPostgres(pool)

	bridgeCfg := notify.DefaultBridgeConfig()
	bridgeCfg.DatabaseURL = cfg.DB.DSN()
	bridge, err := notify.NewBridge(bridgeCfg, notify.NewPublisher(nc))
	if err != nil {
		return err
	}
	go func() {
		if err := bridge.Start(ctx); err != nil {
			log.Error().Err(err).Msg("notify bridge stopped")
		}
	}()

	manager := room.NewManager(pg, notify.NewNotifier(nc), room.SyncOptions{
		PollInterval: cfg.PollInterval,
	})
	defer manager.Shutdown()

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go cm.Start(ctx)

	broadcaster := gateway.NewBroadcaster(manager, cm, nil, 0)
	go broadcaster.Run(ctx)

	server := gateway.NewServer(cfg.Port, gateway.NewService(manager, cm))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
