// Package cookie writes and reads HTTP cookies with consistent attributes.
//
// A Manager holds default attributes (Path=/, HttpOnly, SameSite=Lax) that
// every Set call starts from; per-call options override them. Values are
// written as-is: integrity protection of session tokens is the job of the
// token signer, not of this package.
//
//	man := cookie.New(cookie.WithSecure(true))
//	_ = man.Set(w, "sid", token, cookie.WithMaxAge(3600))
//	v, err := man.Get(r, "sid") // cookie.ErrCookieNotFound when absent
//	man.Delete(w, "sid")
//
// Config can be filled from the environment (COOKIE_PATH, COOKIE_DOMAIN,
// COOKIE_SECURE, COOKIE_HTTP_ONLY, COOKIE_SAME_SITE=lax|strict|none) and passed to
// NewFromConfig.
package cookie
