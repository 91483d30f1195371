// Package redis connects to Redis and stores sessions in it.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which retries the connection using the supplied Config.
//   - SessionStore, a session.Store that keeps each record under a prefixed
//     key with a native Redis TTL.
//   - Healthcheck, for liveness and readiness probes.
//
// Configuration is described by the Config struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	cfg := redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  5 * time.Second,
//	    ConnectTimeout: 30 * time.Second,
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	manager, err := session.New(redis.NewSessionStoreFromConfig(client, cfg), signer)
//
// # Errors
//
// Connection errors are joined with ErrRedisNotReady or
// ErrFailedToParseRedisConnString. SessionStore reports a missing key as
// session.ErrNotFound and every other failure joined with
// session.ErrStoreUnavailable.
package redis
