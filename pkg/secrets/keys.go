package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size of every master key.
	KeySize = 32 // 256 bits for AES-256

	// keyInfo separates the sealing subkey from any other use of a master key.
	keyInfo = "sessionkit-secrets-v1"
)

// ValidateKey checks that a master key has the required length.
func ValidateKey(key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(key))
	}
	return nil
}

// deriveKey expands a master key into the AES key actually used for sealing.
// The caller must clear the result with clearBytes once it is discarded.
func deriveKey(masterKey []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, masterKey, nil, []byte(keyInfo))

	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return derived, nil
}

// clearBytes zeroes key material that is no longer needed.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateKey creates a new random master key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
