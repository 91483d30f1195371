// Package secrets seals byte slices with AES-256-GCM under a rotating set of
// master keys.
//
// Every 32-byte master key is expanded with HKDF-SHA-256 into the AES key
// actually used, so the raw key material configured by the operator is never
// fed to the cipher directly. A Keyring holds keys newest-first: Seal always
// uses the first key, Open tries every key in order. Rotating is a matter of
// prepending a new key and dropping the oldest one once all records sealed
// with it have expired.
//
// The nonce is prepended to the ciphertext so sealed data is self-contained.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionkit/pkg/secrets"
//
//	current, _ := secrets.GenerateKey()
//	ring, err := secrets.NewKeyring(current, previous)
//	if err != nil {
//	    // handle error
//	}
//
//	sealed, err := ring.Seal([]byte("payload"))
//	plain, err := ring.Open(sealed)
//
// Keys can also be read from SESSION_ENCRYPTION_KEYS (comma separated base64)
// through Config and NewFromConfig.
//
// # Error Handling
//
// Errors wrap package sentinels such as ErrInvalidKey or ErrDecryptionFailed;
// match them with errors.Is. Open does not reveal which key failed or why.
package secrets
