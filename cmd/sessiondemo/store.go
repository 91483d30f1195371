package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/badger"
	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// backend is an opened session store plus what the server needs to watch
// and release it.
type backend struct {
	store  session.Store
	checks []httpserver.Check
	close  func() error
}

// openStore connects the backend named by app.Store. Network backends are
// wrapped in a RetryStore when app.StoreRetry is set.
func openStore(ctx context.Context, app appConfig, sessCfg session.Config, log *slog.Logger) (*backend, error) {
	log = log.With(logger.Store(app.Store))

	var b *backend
	switch app.Store {
	case "memory":
		store := session.NewMemoryStore(sessCfg.CleanupInterval)
		return &backend{store: store, close: store.Close}, nil

	case "badger":
		var cfg badger.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		store, err := badger.Open(cfg, log)
		if err != nil {
			return nil, err
		}
		return &backend{store: store, close: store.Close}, nil

	case "redis":
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b = &backend{
			store:  redis.NewSessionStoreFromConfig(client, cfg),
			checks: []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}},
			close:  client.Close,
		}

	case "pg":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		store := pg.NewSessionStore(pool)
		go session.RunCleanup(ctx, store, sessCfg.CleanupInterval, log)
		b = &backend{
			store:  store,
			checks: []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}},
			close: func() error {
				pool.Close()
				return nil
			},
		}

	case "mongo":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store, err := mongo.NewSessionStoreFromConfig(ctx, client, cfg)
		if err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		b = &backend{
			store:  store,
			checks: []httpserver.Check{{Name: "mongo", Fn: mongo.Healthcheck(client)}},
			close: func() error {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return client.Disconnect(shutdownCtx)
			},
		}

	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q: want memory, badger, redis, pg or mongo", app.Store)
	}

	if app.StoreRetry {
		var retryCfg session.RetryConfig
		if err := config.Load(&retryCfg); err != nil {
			_ = b.close()
			return nil, err
		}
		b.store = session.NewRetryStore(b.store, retryCfg)
	}
	return b, nil
}
