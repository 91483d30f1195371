// Package badger stores sessions in an embedded Badger database, for
// single-node deployments that need sessions to survive a restart without
// running Redis or a SQL server.
//
// Every record is written with Badger's per-entry TTL, so expired sessions
// are never returned and no cleanup sweep is needed. A background loop runs
// value log garbage collection every Config.GCInterval.
//
// # Usage
//
//	store, err := badger.Open(badger.Config{Dir: "data/sessions", GCInterval: 10 * time.Minute}, log)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	manager, err := session.New(store, signer)
//
// Set Config.InMemory for tests.
package badger
