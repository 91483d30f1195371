// Package pg stores sessions in PostgreSQL using the pgx/v5 driver.
//
// # Architecture
//
//   - Config is populated from environment variables via
//     github.com/caarlos0/env and controls pool limits and retries.
//   - Connect opens a *pgxpool.Pool, retrying until the database is up.
//   - Migrate applies the embedded goose migrations that create the
//     sessions table.
//   - SessionStore implements session.StoreWithCleanup on that table.
//     Rows carry their own expires_at; expired rows are invisible to Get
//     and removed by DeleteExpired, usually driven by session.RunCleanup.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    return err
//	}
//
//	store := pg.NewSessionStore(pool)
//	go session.RunCleanup(ctx, store, time.Minute, log)
//
//	manager, err := session.New(store, signer)
//
// # Error Handling
//
// SessionStore maps pgx.ErrNoRows to session.ErrNotFound and joins every
// other driver error with session.ErrStoreUnavailable.
package pg
