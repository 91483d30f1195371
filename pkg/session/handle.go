package session

import "time"

// Handle carries one resolved session through a request. It is created by
// Manager.Resolve and consumed by exactly one Manager.Commit.
type Handle struct {
	session   *Session
	presented bool // the client sent a token
	committed bool
}

// Session returns the session owned by the handle.
func (h *Handle) Session() *Session { return h.session }

// Committed reports whether the handle was already committed.
func (h *Handle) Committed() bool { return h.committed }

// Action tells the transport what to do with the client token.
type Action uint8

const (
	// ActionNone leaves the client token untouched.
	ActionNone Action = iota
	// ActionSet sends Directive.Token to the client.
	ActionSet
	// ActionClear tells the client to drop its token.
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionSet:
		return "set"
	case ActionClear:
		return "clear"
	default:
		return "none"
	}
}

// Directive is the outcome of a commit for the outbound token channel.
type Directive struct {
	Action Action
	Token  string
	// MaxAge is how long the client should keep the token. Zero means the
	// token carries no client-side expiry and the store TTL alone decides.
	MaxAge time.Duration
}
