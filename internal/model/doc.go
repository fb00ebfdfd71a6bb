// Package model defines the core data structures used throughout the privacy auditor.
//
// This package contains the following main types:
//   - RiskTier: Ordinal severity attached to a cookie pattern match
//   - Category: What a cookie is used for (tracking, analytics, session, ...)
//   - CookieMatch: The classification of one cookie name
//   - PrivacyReport: The audit result returned to HTTP and CLI clients
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The analyzer, report, pipeline and server packages all need
// these types, so centralizing them prevents import cycles.
//
// The JSON field names of PrivacyReport are part of the public wire format
// consumed by the browser extension and must not be renamed.
package model
