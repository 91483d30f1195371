package token

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/crypto/hkdf"
)

const (
	// DefaultIDLength is the id size the signer accepts unless WithIDLength
	// says otherwise.
	DefaultIDLength = 32

	// MinSecretLength is the minimum length of a signing secret in bytes.
	MinSecretLength = 32

	macSize = sha256.Size
	keyInfo = "sessionkit-token-v1"
)

var encoding = base64.RawURLEncoding.Strict()

// Signer authenticates session ids with HMAC-SHA256.
//
// Tokens have the form base64url(id) "." base64url(mac). The first secret
// signs; all secrets verify, so a rotated-out secret keeps validating
// existing tokens until it is dropped from the list.
type Signer struct {
	keys  atomic.Pointer[[][]byte]
	idLen int
}

// Option configures a Signer.
type Option func(*Signer)

// WithIDLength sets the exact id length the signer accepts.
func WithIDLength(n int) Option {
	return func(s *Signer) {
		if n > 0 {
			s.idLen = n
		}
	}
}

// NewSigner creates a signer from secrets ordered newest first.
func NewSigner(secrets [][]byte, opts ...Option) (*Signer, error) {
	s := &Signer{idLen: DefaultIDLength}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Rotate(secrets); err != nil {
		return nil, err
	}
	return s, nil
}

// Rotate atomically replaces the secret list. Tokens signed by a secret
// that is no longer listed stop verifying.
func (s *Signer) Rotate(secrets [][]byte) error {
	keys, err := deriveKeys(secrets)
	if err != nil {
		return err
	}
	s.keys.Store(&keys)
	return nil
}

// KeyCount returns the number of active secrets.
func (s *Signer) KeyCount() int {
	return len(*s.keys.Load())
}

// Sign returns the token for id using the newest secret.
func (s *Signer) Sign(id []byte) (string, error) {
	if len(id) != s.idLen {
		return "", fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidID, s.idLen, len(id))
	}
	keys := *s.keys.Load()
	mac := computeMAC(keys[0], id)
	return encoding.EncodeToString(id) + "." + encoding.EncodeToString(mac), nil
}

// Verify checks token against every active secret and returns the id.
func (s *Signer) Verify(token string) ([]byte, error) {
	idEnc := encoding.EncodedLen(s.idLen)
	macEnc := encoding.EncodedLen(macSize)

	if len(token) != idEnc+1+macEnc || token[idEnc] != '.' {
		return nil, ErrInvalidToken
	}

	id, err := encoding.DecodeString(token[:idEnc])
	if err != nil || len(id) != s.idLen {
		return nil, ErrInvalidToken
	}
	mac, err := encoding.DecodeString(token[idEnc+1:])
	if err != nil || len(mac) != macSize {
		return nil, ErrInvalidToken
	}

	// Every key is checked so the time taken does not reveal which one matched.
	valid := false
	for _, key := range *s.keys.Load() {
		if hmac.Equal(mac, computeMAC(key, id)) {
			valid = true
		}
	}
	if !valid {
		return nil, ErrInvalidToken
	}
	return id, nil
}

func computeMAC(key, id []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(id)
	return h.Sum(nil)
}

func deriveKeys(secrets [][]byte) ([][]byte, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecrets
	}

	keys := make([][]byte, 0, len(secrets))
	for i, secret := range secrets {
		if len(secret) < MinSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d bytes, need at least %d", ErrSecretTooShort, i, len(secret), MinSecretLength)
		}
		for j := range i {
			if bytes.Equal(secrets[j], secret) {
				return nil, fmt.Errorf("%w: secrets %d and %d", ErrDuplicateSecret, j, i)
			}
		}

		key := make([]byte, macSize)
		if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
			return nil, fmt.Errorf("token: derive key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
