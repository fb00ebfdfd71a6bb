package rules

import "slices"

// TrackerDomainRule maps a script source substring to a tracker name.
type TrackerDomainRule struct {
	// DomainSubstring is matched against the raw script src attribute.
	DomainSubstring string

	// Label is the tracker name reported for a match.
	Label string
}

// HighRiskDomainRule flags an audited domain with a stored reason.
type HighRiskDomainRule struct {
	// DomainSubstring is matched against the audited host.
	DomainSubstring string

	// Reason is reported verbatim in the finding.
	Reason string
}

var trackerDomainRules = []TrackerDomainRule{
	{DomainSubstring: "googletagmanager.com", Label: "Google Tag Manager"},
	{DomainSubstring: "google-analytics.com", Label: "Google Analytics"},
	{DomainSubstring: "facebook.com", Label: "Facebook"},
	{DomainSubstring: "doubleclick.net", Label: "Google Ads"},
	{DomainSubstring: "cloudflare.com", Label: "Cloudflare Analytics"},
	{DomainSubstring: "hotjar.com", Label: "Hotjar"},
	{DomainSubstring: "segment.com", Label: "Segment Analytics"},
}

var highRiskDomainRules = []HighRiskDomainRule{
	{DomainSubstring: "facebook.com", Reason: "Platform with a history of privacy problems"},
	{DomainSubstring: "tiktok.com", Reason: "Extensive data collection"},
	{DomainSubstring: "amazon.com", Reason: "Extensive behavioral tracking"},
}

// trackingParamMarkers are URL substrings that indicate tracking identifiers.
// Any number of matches yields a single finding.
var trackingParamMarkers = []string{"utm_", "fbclid=", "gclid=", "tracking"}

// TrackerDomainRules returns a copy of the third-party script table.
func TrackerDomainRules() []TrackerDomainRule {
	return slices.Clone(trackerDomainRules)
}

// HighRiskDomainRules returns a copy of the high-risk domain table.
func HighRiskDomainRules() []HighRiskDomainRule {
	return slices.Clone(highRiskDomainRules)
}

// TrackingParamMarkers returns a copy of the tracking parameter markers.
func TrackingParamMarkers() []string {
	return slices.Clone(trackingParamMarkers)
}
