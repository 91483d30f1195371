// Package httpserver runs an http.Handler with graceful shutdown,
// configurable timeouts and health endpoints.
//
// Run binds the listener, calls the start hooks and serves until the context
// is cancelled, SIGINT or SIGTERM arrives, or Shutdown is called. Shutdown
// drains connections within the configured deadline and then calls the stop
// hooks, which is where callers close session stores.
//
// LivenessHandler and ReadinessHandler are meant for /livez and /healthz;
// readiness runs named Check functions such as redis.Healthcheck.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.ReadinessHandler(log, 2*time.Second,
//	    httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStopHook(func(*slog.Logger) { _ = client.Close() }),
//	)
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Run wraps listen errors with ErrStart and Shutdown wraps shutdown errors
// with ErrShutdown.
package httpserver
