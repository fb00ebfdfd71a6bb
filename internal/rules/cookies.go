package rules

import (
	"slices"

	"github.com/nao1215/privacyaudit/internal/model"
)

// CookieRule maps a cookie name substring to a label, category and risk tier.
type CookieRule struct {
	// Substring is matched against the lowercased cookie name.
	Substring string

	// Label is the human-readable name reported for a match.
	Label string

	// Category is the category reported for a match.
	Category model.Category

	// Risk is the risk tier reported for a match.
	Risk model.RiskTier
}

// cookieRules is the ordered cookie table; first match wins.
//
// Order matters where substrings overlap: "_ga" is listed before "_ga_", so a
// GA4 cookie such as "_ga_ABC123" reports "Google Analytics". "auth" is
// listed before "arena-auth" and "jwt" before "__clerk", so the later rules
// only match names the earlier ones miss.
var cookieRules = []CookieRule{
	// Analytics
	{Substring: "_ga", Label: "Google Analytics", Category: model.CategoryAnalytics, Risk: model.RiskHigh},
	{Substring: "_gid", Label: "Google Analytics ID", Category: model.CategoryAnalytics, Risk: model.RiskHigh},
	{Substring: "_gcl_au", Label: "Google Ads Conversion", Category: model.CategoryAdvertising, Risk: model.RiskHigh},
	{Substring: "_ga_", Label: "Google Analytics 4", Category: model.CategoryAnalytics, Risk: model.RiskHigh},

	// Social media
	{Substring: "_fbp", Label: "Facebook Pixel", Category: model.CategoryAdvertising, Risk: model.RiskHigh},
	{Substring: "fbm_", Label: "Facebook", Category: model.CategoryAdvertising, Risk: model.RiskHigh},

	// Other trackers
	{Substring: "ph_", Label: "PostHog Analytics", Category: model.CategoryAnalytics, Risk: model.RiskMedium},
	{Substring: "posthog", Label: "PostHog Analytics", Category: model.CategoryAnalytics, Risk: model.RiskMedium},
	{Substring: "__utm", Label: "UTM Campaign Tracking", Category: model.CategoryTracking, Risk: model.RiskMedium},

	// Session and authentication
	{Substring: "jwt", Label: "JSON Web Token", Category: model.CategorySession, Risk: model.RiskLow},
	{Substring: "auth", Label: "Authentication", Category: model.CategorySession, Risk: model.RiskLow},
	{Substring: "session", Label: "Session", Category: model.CategorySession, Risk: model.RiskLow},
	{Substring: "__client", Label: "Client Identification", Category: model.CategoryFunctional, Risk: model.RiskMedium},
	{Substring: "__clerk", Label: "Clerk Auth", Category: model.CategorySession, Risk: model.RiskLow},

	// UI state
	{Substring: "sidebar_state", Label: "UI State", Category: model.CategoryFunctional, Risk: model.RiskLow},
	{Substring: "arena-auth", Label: "Arena Authentication", Category: model.CategorySession, Risk: model.RiskLow},
}

// CookieRules returns a copy of the ordered cookie table.
func CookieRules() []CookieRule {
	return slices.Clone(cookieRules)
}
