// Command sessiondemo serves three routes backed by a server-side session:
// /authorize stores a random user id, /data returns it or 401, and /logout
// destroys the session.
package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/environment"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/secrets"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/token"
)

type appConfig struct {
	Store          string `env:"SESSION_STORE" envDefault:"memory"`
	StoreRetry     bool   `env:"SESSION_STORE_RETRY" envDefault:"true"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("sessiondemo failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		app       appConfig
		logCfg    logger.Config
		sessCfg   session.Config
		tokenCfg  token.Config
		secretCfg secrets.Config
		cookieCfg cookie.Config
		httpCfg   httpserver.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&app) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&sessCfg) },
		func() error { return config.Load(&tokenCfg) },
		func() error { return config.Load(&secretCfg) },
		func() error { return config.Load(&cookieCfg) },
		func() error { return config.Load(&httpCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log, err := logger.NewFromConfig(logCfg, logger.WithContextExtractors(
		environment.LoggerExtractor(),
		requestid.LoggerExtractor(),
	))
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signer, err := token.NewFromConfig(tokenCfg)
	if err != nil {
		return err
	}
	if tokenCfg.SecretsFile != "" {
		if err := token.WatchSecretsFile(ctx, tokenCfg.SecretsFile, signer, log); err != nil {
			return err
		}
	}

	codec, err := session.CodecByName(sessCfg.Codec)
	if err != nil {
		return err
	}
	if secretCfg.Enabled() {
		ring, err := secrets.NewFromConfig(secretCfg)
		if err != nil {
			return err
		}
		codec = session.NewSealedCodec(codec, ring)
	}

	var registry *prometheus.Registry
	opts := []session.Option{session.WithCodec(codec), session.WithLogger(log)}
	if app.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, session.WithMetrics(session.NewMetrics(registry)))
	}

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return err
	}
	transport := session.NewCookieTransportFromConfig(sessCfg, cookies)

	b, err := openStore(ctx, app, sessCfg, log)
	if err != nil {
		return err
	}
	closeStore := sync.OnceValue(b.close)
	defer closeStore()

	manager, err := session.NewFromConfig(sessCfg, b.store, signer, opts...)
	if err != nil {
		return err
	}

	router := newRouter(routerDeps{
		env:       environment.Parse(logCfg.Env),
		manager:   manager,
		transport: transport,
		registry:  registry,
		checks:    b.checks,
		log:       log,
	})

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(l *slog.Logger) {
			cancel()
			if err := closeStore(); err != nil {
				l.Error("closing session store", logger.Error(err))
			}
		}),
	)

	log.Info("session demo ready",
		logger.Store(app.Store),
		slog.String("cookie", sessCfg.CookieName),
		logger.Keys(signer.KeyCount()),
	)
	return srv.Run(ctx, router)
}
