package model

import "fmt"

// RiskTier represents the risk level of a cookie pattern match.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons. The text form ("Low", "Medium", "High") is
// what appears on the wire.
type RiskTier int

const (
	// RiskLow is assigned to session, authentication and unknown cookies.
	RiskLow RiskTier = iota

	// RiskMedium is assigned to first-party analytics and identification cookies.
	// A medium match adds a finding that does not name the raw cookie.
	RiskMedium

	// RiskHigh is assigned to cross-site trackers (Google, Facebook).
	// A high match adds a finding that includes the raw cookie name.
	RiskHigh
)

// String returns a human-readable representation of the risk tier.
func (r RiskTier) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output uses the name.
func (r RiskTier) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RiskTier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Low":
		*r = RiskLow
	case "Medium":
		*r = RiskMedium
	case "High":
		*r = RiskHigh
	default:
		return fmt.Errorf("unknown risk tier %q", text)
	}
	return nil
}

// Category describes what a cookie is used for.
type Category string

const (
	// CategoryTracking covers campaign and cross-visit tracking cookies.
	CategoryTracking Category = "tracking"
	// CategoryAnalytics covers analytics measurement cookies.
	CategoryAnalytics Category = "analytics"
	// CategoryAdvertising covers ad conversion and pixel cookies.
	CategoryAdvertising Category = "advertising"
	// CategoryFunctional covers UI state and client identification cookies.
	CategoryFunctional Category = "functional"
	// CategorySession covers session and authentication cookies.
	CategorySession Category = "session"
	// CategoryUnknown is used when no pattern matched.
	CategoryUnknown Category = "unknown"
)

// IsTracking reports whether cookies of this category count as tracking cookies.
// Tracking, analytics and advertising cookies all count.
func (c Category) IsTracking() bool {
	switch c {
	case CategoryTracking, CategoryAnalytics, CategoryAdvertising:
		return true
	default:
		return false
	}
}
