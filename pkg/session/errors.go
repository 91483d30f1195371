package session

import "errors"

var (
	// ErrNotFound indicates the store holds no live record for a key.
	ErrNotFound = errors.New("session.not_found")

	// ErrStoreUnavailable indicates the backing store failed. It is never
	// interpreted as a missing session.
	ErrStoreUnavailable = errors.New("session.store_unavailable")

	// ErrDecode indicates stored bytes could not be decoded into a session.
	ErrDecode = errors.New("session.decode_failed")

	// ErrUnsupportedValue indicates a field value outside the supported set.
	ErrUnsupportedValue = errors.New("session.unsupported_value")

	// ErrHandleCommitted indicates Commit was called twice for one handle.
	ErrHandleCommitted = errors.New("session.handle_committed")

	// ErrInvalidConfig indicates the manager was built with unusable settings.
	ErrInvalidConfig = errors.New("session.invalid_config")

	// ErrInvalidID indicates raw id bytes of the wrong length.
	ErrInvalidID = errors.New("session.invalid_id")

	// ErrNoToken indicates the request carries no session token.
	ErrNoToken = errors.New("session.no_token")

	// ErrIDGeneration indicates the random source failed.
	ErrIDGeneration = errors.New("session.id_generation_failed")
)
