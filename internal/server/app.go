// Package server wires the backend: secret store, relay, enrollment storage,
// idempotency cache and the HTTP gateway.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/server/config"
	"github.com/dmitrijs2005/finlink/internal/server/enrollments"
	"github.com/dmitrijs2005/finlink/internal/server/gateway"
	"github.com/dmitrijs2005/finlink/internal/server/relay"
	"github.com/dmitrijs2005/finlink/internal/server/secrets"
	"github.com/dmitrijs2005/finlink/internal/server/shared/db"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   db.RepositoryManager
	cache   *redis.Client
	gateway *gateway.Server
}

// NewRelayHandler builds the relay with the configured secret backend.
func NewRelayHandler(ctx context.Context, cfg *config.Config, logger logging.Logger) (*relay.Handler, error) {
	store, err := secrets.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("secret store init error: %w", err)
	}

	return relay.NewHandler(relay.Settings{
		CertSecretName:  cfg.CertSecretName,
		KeySecretName:   cfg.KeySecretName,
		TellerBaseURL:   cfg.TellerBaseURL,
		UpstreamTimeout: cfg.UpstreamTimeout,
	}, store, logger), nil
}

// NewApp builds the gateway. Postgres and Redis are optional: without a DSN
// enrollments are acknowledged but not stored, and an unreachable Redis
// disables replay.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: cfg, logger: logger}

	handler, err := NewRelayHandler(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var processor enrollments.Processor
	if cfg.DatabaseDSN != "" {
		repos, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.repos = repos
		processor = enrollments.NewService(repos.Conn(), repos.Enrollments, []byte(cfg.FingerprintKey), logger)
	} else {
		logger.Warn(ctx, "no database configured, enrollments will not be stored")
		processor = enrollments.NewAckOnly([]byte(cfg.FingerprintKey), logger)
	}

	if cfg.RedisURL != "" {
		app.cache = connectRedis(ctx, cfg.RedisURL, logger)
	}

	app.gateway = gateway.New(gateway.Deps{
		Relay:          handler,
		Enrollments:    processor,
		Cache:          app.cache,
		IdempotencyTTL: cfg.IdempotencyTTL,
		JWTSecret:      []byte(cfg.JWTSecret),
		Logger:         logger,
	})

	return app, nil
}

func connectRedis(ctx context.Context, url string, logger logging.Logger) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn(ctx, "invalid redis url, idempotent replay disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "redis unreachable, idempotent replay disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the gateway until ctx is cancelled or a termination signal
// arrives, then releases the database and cache.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting gateway...", "addr", app.config.ListenAddr)

	app.initSignalHandler(cancelFunc)

	err := app.gateway.Run(ctx, app.config.ListenAddr)
	app.Close(ctx)
	return err
}

func (app *App) Close(ctx context.Context) {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Warn(ctx, "redis close failed", "error", err)
		}
	}
	if app.repos != nil {
		if err := app.repos.Close(); err != nil {
			app.logger.Warn(ctx, "db close failed", "error", err)
		}
	}
}
