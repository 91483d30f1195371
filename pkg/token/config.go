package token

import (
	"strings"
)

// Config holds signer configuration.
// Secrets is a comma separated list, newest first, using the same entry
// syntax as the keyring file. SecretsFile wins when both are set.
type Config struct {
	Secrets     string `env:"SESSION_SECRETS"`
	SecretsFile string `env:"SESSION_SECRETS_FILE"`
}

func (c Config) secrets() ([][]byte, error) {
	if c.SecretsFile != "" {
		return LoadSecretsFile(c.SecretsFile)
	}

	var out [][]byte
	for _, entry := range strings.Split(c.Secrets, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		secret, err := decodeSecret(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, secret)
	}
	if len(out) == 0 {
		return nil, ErrNoSecrets
	}
	return out, nil
}

// NewFromConfig creates a Signer from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Signer, error) {
	secrets, err := cfg.secrets()
	if err != nil {
		return nil, err
	}
	return NewSigner(secrets, opts...)
}
