package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
)

// IDSize is the length of a session id in bytes.
const IDSize = 32

const redacted = "[session-id]"

// ID is an opaque random session identifier.
//
// Its String, Format and LogValue output is redacted so an id cannot end up
// in logs by accident. Use Key for store addressing; clients only ever see
// the id inside a signed token.
type ID [IDSize]byte

// NewID reads a fresh id from crypto/rand.
func NewID() (ID, error) {
	var id ID
	if _, err := rand.Read(id[:]); err != nil {
		return ID{}, errors.Join(ErrIDGeneration, err)
	}
	return id, nil
}

// IDFromBytes copies b into an ID. b must be exactly IDSize bytes.
func IDFromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != IDSize {
		return id, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidID, IDSize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Key returns the store key for the id.
func (id ID) Key() string { return hex.EncodeToString(id[:]) }

// Bytes returns a copy of the raw id.
func (id ID) Bytes() []byte {
	b := make([]byte, IDSize)
	copy(b, id[:])
	return b
}

// IsZero reports whether id was never assigned.
func (id ID) IsZero() bool { return id == ID{} }

func (id ID) String() string { return redacted }

func (id ID) GoString() string { return redacted }

func (id ID) Format(f fmt.State, _ rune) { _, _ = f.Write([]byte(redacted)) }

func (id ID) LogValue() slog.Value { return slog.StringValue(redacted) }
