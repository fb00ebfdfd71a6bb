// Package log provides secure logging built on top of the standard slog package.
//
// SecureHandler wraps any slog.Handler and sanitizes attributes before they
// are written:
//   - HTTP headers (Authorization, Cookie, Set-Cookie)
//   - Keys that name passwords, secrets, tokens or sessions
//   - Values that look like JWTs, Authorization credentials or session IDs
//   - Query values of utm_*, fbclid, gclid and similar click identifiers,
//     and userinfo passwords, inside logged URLs
//
// Audited URLs often carry visitor identifiers, so these are masked even in
// verbose mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("analyzing url", "url", "https://example.com/?fbclid=abc")
//	// url=https://example.com/?fbclid=***REDACTED***
package log
