package session

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// Session is the server-side state of one client.
//
// A Session belongs to the request that resolved it and is not safe for
// concurrent use. Mutations stay in memory until the owning Handle is
// committed through the Manager.
type Session struct {
	id         ID
	fields     map[string]Value
	createdAt  time.Time
	accessedAt time.Time
	revision   uint64

	isNew      bool
	dirty      bool
	destroyed  bool
	regenerate bool
}

// newSession returns an empty, unsaved session.
func newSession(id ID, now time.Time) *Session {
	return &Session{
		id:         id,
		fields:     make(map[string]Value),
		createdAt:  now,
		accessedAt: now,
		isNew:      true,
	}
}

// ID returns the session id.
func (s *Session) ID() ID { return s.id }

// CreatedAt returns when the session was first created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// AccessedAt returns when the session was last written to the store.
func (s *Session) AccessedAt() time.Time { return s.accessedAt }

// Revision returns the number of commits the session has seen.
func (s *Session) Revision() uint64 { return s.revision }

// IsNew reports whether the session has never been persisted.
func (s *Session) IsNew() bool { return s.isNew }

// IsDirty reports whether the session has unsaved mutations.
func (s *Session) IsDirty() bool { return s.dirty }

// IsDestroyed reports whether Destroy was called.
func (s *Session) IsDestroyed() bool { return s.destroyed }

// Get retrieves a field.
func (s *Session) Get(key string) (Value, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// GetString retrieves a string field.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.fields[key]
	if !ok {
		return "", false
	}
	return v.Str()
}

// GetInt retrieves an integer field.
func (s *Session) GetInt(key string) (int64, bool) {
	v, ok := s.fields[key]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// GetBool retrieves a boolean field.
func (s *Session) GetBool(key string) (bool, bool) {
	v, ok := s.fields[key]
	if !ok {
		return false, false
	}
	return v.Bool()
}

// Insert converts value with ValueOf and stores it under key.
// Unsupported values fail here with ErrUnsupportedValue and leave the
// session untouched.
func (s *Session) Insert(key string, value any) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrUnsupportedValue)
	}
	v, err := ValueOf(value)
	if err != nil {
		return fmt.Errorf("session: insert %q: %w", key, err)
	}
	s.set(key, v)
	return nil
}

// InsertValue stores an already built Value under key.
func (s *Session) InsertValue(key string, v Value) error {
	return s.Insert(key, v)
}

func (s *Session) set(key string, v Value) {
	if s.fields == nil {
		s.fields = make(map[string]Value)
	}
	s.fields[key] = v
	s.dirty = true
}

// Remove deletes a field. Removing an absent key is a no-op.
func (s *Session) Remove(key string) {
	if _, ok := s.fields[key]; !ok {
		return
	}
	delete(s.fields, key)
	s.dirty = true
}

// Clear removes all fields.
func (s *Session) Clear() {
	if len(s.fields) == 0 {
		return
	}
	s.fields = make(map[string]Value)
	s.dirty = true
}

// Keys returns the field names in sorted order.
func (s *Session) Keys() []string {
	return slices.Sorted(maps.Keys(s.fields))
}

// Len returns the number of fields.
func (s *Session) Len() int { return len(s.fields) }

// Fields returns a copy of all fields.
func (s *Session) Fields() map[string]Value {
	out := make(map[string]Value, len(s.fields))
	maps.Copy(out, s.fields)
	return out
}

// Destroy marks the session for deletion. On commit the stored record is
// removed and the client is told to drop its token.
func (s *Session) Destroy() {
	s.destroyed = true
}

// Regenerate asks the manager to move the session to a fresh id on commit,
// keeping its fields. Call it when the privilege level changes, e.g. after
// login.
func (s *Session) Regenerate() {
	s.regenerate = true
	s.dirty = true
}
