// Package token signs session ids into opaque client tokens.
//
// A token is base64url(id) "." base64url(HMAC-SHA256(key, id)) without
// padding. Each configured secret is expanded with HKDF-SHA256 into its MAC
// key. Secrets are ordered newest first: the newest signs, every secret
// verifies, which gives a grace window when rotating.
//
// # Usage
//
//	signer, err := token.NewSigner([][]byte{newSecret, oldSecret})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tok, _ := signer.Sign(id)
//	id, err = signer.Verify(tok) // token.ErrInvalidToken on any failure
//
// Secrets can come from the environment (SESSION_SECRETS) or a YAML keyring
// file (SESSION_SECRETS_FILE) which WatchSecretsFile reloads on change.
//
// Verify never reports why a token was rejected, and compares every MAC
// in constant time.
package token
