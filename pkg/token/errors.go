package token

import "errors"

var (
	// ErrInvalidToken is the only error Verify returns. It does not say
	// which check failed.
	ErrInvalidToken = errors.New("token.invalid")

	ErrNoSecrets          = errors.New("token.no_secrets")
	ErrSecretTooShort     = errors.New("token.secret_too_short")
	ErrDuplicateSecret    = errors.New("token.duplicate_secret")
	ErrInvalidID          = errors.New("token.invalid_id")
	ErrInvalidSecretsFile = errors.New("token.invalid_secrets_file")
)
