package secrets

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Config holds the encryption-at-rest keys.
type Config struct {
	// Keys is a comma separated list of base64 encoded 32-byte keys, newest first.
	Keys string `env:"SESSION_ENCRYPTION_KEYS" envDefault:""`
}

// Enabled reports whether any key is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Keys) != ""
}

// parseKeys splits and decodes the key list.
func (c Config) parseKeys() ([][]byte, error) {
	parts := strings.Split(c.Keys, ",")
	keys := make([][]byte, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key, err := base64.StdEncoding.DecodeString(p)
		if err != nil {
			return nil, errors.Join(ErrInvalidKey, err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// NewFromConfig builds a Keyring from Config.
func NewFromConfig(cfg Config) (*Keyring, error) {
	keys, err := cfg.parseKeys()
	if err != nil {
		return nil, err
	}
	return NewKeyring(keys...)
}
