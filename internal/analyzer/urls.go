package analyzer

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/privacyaudit/internal/rules"
)

// trackingParamFinding is reported once when any tracking marker is present.
const trackingParamFinding = "Tracking parameters detected in URL"

// URLResult is the output of scanning the audited URL.
type URLResult struct {
	// HighRiskReasons lists the reason of every high-risk domain rule matched.
	HighRiskReasons []string

	// HasTrackingParams is true when the URL contains any tracking marker.
	HasTrackingParams bool

	// Findings are the risk statements for the URL.
	Findings []string
}

// URLScanner checks the audited URL and its host against static tables.
type URLScanner struct {
	domains []rules.HighRiskDomainRule
	markers []string
}

// URLScannerOption configures a URLScanner.
type URLScannerOption func(*URLScanner)

// WithHighRiskDomainRules replaces the default high-risk domain table.
func WithHighRiskDomainRules(r []rules.HighRiskDomainRule) URLScannerOption {
	return func(s *URLScanner) {
		s.domains = r
	}
}

// WithTrackingMarkers replaces the default tracking parameter markers.
func WithTrackingMarkers(markers []string) URLScannerOption {
	return func(s *URLScanner) {
		s.markers = markers
	}
}

// NewURLScanner creates a URLScanner using the default tables.
func NewURLScanner(opts ...URLScannerOption) *URLScanner {
	s := &URLScanner{
		domains: rules.HighRiskDomainRules(),
		markers: rules.TrackingParamMarkers(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan checks domain against every high-risk rule and rawURL against the
// tracking markers. Every matching domain rule adds a finding; the markers
// add at most one.
func (s *URLScanner) Scan(rawURL, domain string) URLResult {
	result := URLResult{
		HighRiskReasons: make([]string, 0),
		Findings:        make([]string, 0),
	}

	for _, rule := range s.domains {
		if strings.Contains(domain, rule.DomainSubstring) {
			result.HighRiskReasons = append(result.HighRiskReasons, rule.Reason)
			result.Findings = append(result.Findings,
				fmt.Sprintf("High-risk domain: %s", rule.Reason))
		}
	}

	lowered := cases.Lower(language.Und).String(rawURL)
	for _, marker := range s.markers {
		if strings.Contains(lowered, marker) {
			result.HasTrackingParams = true
			break
		}
	}
	if result.HasTrackingParams {
		result.Findings = append(result.Findings, trackingParamFinding)
	}

	return result
}

// ExtractDomain returns the lowercased host of rawURL without port.
// It returns an empty string when rawURL has no host, for example when the
// scheme is missing.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
