package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// Keyring seals data with the newest key and opens data sealed with any key
// it holds. Keys are ordered newest-first; appending the previous key after a
// new one keeps old ciphertexts readable during rotation.
type Keyring struct {
	aeads []cipher.AEAD
}

// NewKeyring builds a keyring from master keys ordered newest-first.
func NewKeyring(keys ...[]byte) (*Keyring, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}

	aeads := make([]cipher.AEAD, 0, len(keys))
	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			return nil, err
		}

		derived, err := deriveKey(key)
		if err != nil {
			return nil, err
		}

		block, err := aes.NewCipher(derived)
		clearBytes(derived)
		if err != nil {
			return nil, errors.Join(ErrKeyDerivationFailed, err)
		}

		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, errors.Join(ErrKeyDerivationFailed, err)
		}
		aeads = append(aeads, aead)
	}

	return &Keyring{aeads: aeads}, nil
}

// Len returns the number of keys in the ring.
func (k *Keyring) Len() int { return len(k.aeads) }

// Seal encrypts data with the newest key.
// The output is nonce || ciphertext || tag.
func (k *Keyring) Seal(data []byte) ([]byte, error) {
	aead := k.aeads[0]

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(data)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	return aead.Seal(nonce, nonce, data, nil), nil
}

// Open decrypts data sealed by any key in the ring.
func (k *Keyring) Open(sealed []byte) ([]byte, error) {
	for _, aead := range k.aeads {
		nonceSize := aead.NonceSize()
		if len(sealed) < nonceSize+aead.Overhead() {
			return nil, ErrInvalidCiphertext
		}

		nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
		if plaintext, err := aead.Open(nil, nonce, ciphertext, nil); err == nil {
			return plaintext, nil
		}
	}
	return nil, ErrDecryptionFailed
}
