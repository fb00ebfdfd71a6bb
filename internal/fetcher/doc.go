// Package fetcher retrieves the page being audited.
//
// The audit core depends only on the Fetcher interface, so scoring can be
// tested with a stub and no network. HTTPFetcher is the production
// implementation: a single GET with redirects followed, browser-like
// headers, a fixed timeout, a response size limit, charset decoding, and an
// optional SOCKS5 proxy.
//
// # Failures
//
// Every failure is returned as a *FetchError whose Kind is one of
// FailureForbidden (403), FailureUnauthorized (401), FailureHTTPStatus (any
// other status >= 400) or FailureConnection (DNS, TLS, timeout, refused).
// The sentinels ErrForbidden, ErrUnauthorized, ErrHTTPStatus and
// ErrConnection match the corresponding kind with errors.Is.
//
// The fetcher never retries.
package fetcher
