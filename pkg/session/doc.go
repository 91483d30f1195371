// Package session provides server-side sessions for Go web applications.
// Session state lives in a pluggable Store; the client only holds a signed
// token that names it.
//
// # Architecture
//
// A request goes through three steps. Manager.Resolve turns the inbound
// token into a Handle owning a *Session. Handlers read and mutate the
// session in memory. Manager.Commit persists what changed and returns a
// Directive telling the Transport whether to set, clear or leave the
// client token.
//
//	┌────────┐   token   ┌────────────┐   Resolve / Commit   ┌─────────┐
//	│ Client │ ────────► │  Transport │ ───────────────────► │ Manager │
//	└────────┘ ◄──────── └────────────┘ ◄─────────────────── └─────────┘
//	           Directive                                         │
//	                                              Codec + Signer  │ Get/Set/Delete
//	                                                              ▼
//	                                                        ┌────────┐
//	                                                        │ Store  │ memory, redis, pg, mongo, badger
//	                                                        └────────┘
//
// Tokens never contain session data. A forged, stale or unknown token
// resolves to a fresh empty session rather than an error. A new session is
// stored and issued a token only once something is written to it.
//
// # Usage
//
//	signer, _ := token.NewSigner([][]byte{secret})
//	manager, _ := session.New(redis.NewSessionStore(client), signer,
//	    session.WithTTL(time.Hour),
//	)
//
//	transport := session.NewCookieTransport(cookie.New(), "sid")
//	mux.Handle("/login", manager.Handler(transport, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
//	    s.Regenerate()
//	    _ = s.Insert("user_id", "42")
//	}))
//
// Code outside net/http can call Resolve and Commit directly and apply the
// Directive itself.
//
// # Expiration
//
// With sliding expiration (the default) every write restarts Config.TTL.
// Unchanged sessions are rewritten once their last write is older than
// Config.TouchInterval. FixedExpiration counts the TTL from creation and
// MaxLifetime caps the total age in both modes.
//
// # Concurrency
//
// Concurrent requests with the same token each get their own copy of the
// session. Commits are last-write-wins. Session.Revision grows with every
// commit and is the hook for stores that want optimistic concurrency.
//
// # Error Handling
//
// Store failures surface as ErrStoreUnavailable and are never mistaken for
// a missing session. Unsupported field values fail at Insert with
// ErrUnsupportedValue. Committing a handle twice returns ErrHandleCommitted.
package session
