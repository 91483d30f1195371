package cookie

import "errors"

var (
	ErrCookieNotFound = errors.New("cookie.not_found")
	ErrInvalidFormat  = errors.New("cookie.invalid_format")
	ErrInvalidOptions = errors.New("cookie.invalid_options")
)
