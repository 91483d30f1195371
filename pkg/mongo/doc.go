// Package mongo stores sessions in MongoDB.
//
// New connects with retries, Healthcheck wraps Ping for readiness probes and
// SessionStore keeps one document per session:
//
//	{ _id: <key>, data: <BinData>, expires_at: <Date> }
//
// A TTL index with expireAfterSeconds 0 on expires_at removes stale
// documents server-side. The TTL monitor runs periodically, so Get also
// filters on expires_at and never returns an expired record.
//
// # Usage
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//
//	store, err := mongo.NewSessionStoreFromConfig(ctx, client, cfg)
//	if err != nil {
//	    return err
//	}
//	manager, err := session.New(store, signer)
//
// # Error Handling
//
// Connection failures are joined with ErrFailedToConnectToMongo. The store
// maps mongo.ErrNoDocuments to session.ErrNotFound and joins every other
// driver error with session.ErrStoreUnavailable.
package mongo
