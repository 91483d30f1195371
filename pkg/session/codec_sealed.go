package session

import (
	"errors"

	"github.com/dmitrymomot/sessionkit/pkg/secrets"
)

// SealedCodec encrypts the output of another codec so store operators cannot
// read session contents. Records sealed with a retired key fail to open and
// are treated as missing.
type SealedCodec struct {
	inner Codec
	ring  *secrets.Keyring
}

// NewSealedCodec wraps inner with encryption under ring.
func NewSealedCodec(inner Codec, ring *secrets.Keyring) *SealedCodec {
	if inner == nil {
		inner = JSONCodec{}
	}
	return &SealedCodec{inner: inner, ring: ring}
}

func (c *SealedCodec) Encode(s *Session) ([]byte, error) {
	data, err := c.inner.Encode(s)
	if err != nil {
		return nil, err
	}
	return c.ring.Seal(data)
}

func (c *SealedCodec) Decode(data []byte) (*Session, error) {
	plain, err := c.ring.Open(data)
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return c.inner.Decode(plain)
}
