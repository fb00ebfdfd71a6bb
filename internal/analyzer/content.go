package analyzer

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/privacyaudit/internal/rules"
)

// ContentResult is the output of scanning a fetched page.
type ContentResult struct {
	// Scripts lists the raw src attribute of every script element that has one.
	Scripts []string

	// Trackers lists the tracker labels matched, one entry per (script, rule) match.
	Trackers []string

	// IframeCount is the number of iframe elements in the document.
	IframeCount int

	// Findings are the risk statements for the page content.
	Findings []string
}

// ContentScanner detects third-party scripts and iframes in HTML.
//
// Design decision: We use golang.org/x/net/html rather than regex because
// it correctly handles the malformed markup common on the web, and the
// tree walk only looks at element nodes so script bodies and comments can
// never produce false matches.
type ContentScanner struct {
	rules  []rules.TrackerDomainRule
	logger *slog.Logger
}

// ContentScannerOption configures a ContentScanner.
type ContentScannerOption func(*ContentScanner)

// WithTrackerRules replaces the default tracker domain table.
func WithTrackerRules(r []rules.TrackerDomainRule) ContentScannerOption {
	return func(s *ContentScanner) {
		s.rules = r
	}
}

// WithContentLogger sets the logger used to report parse failures.
func WithContentLogger(logger *slog.Logger) ContentScannerOption {
	return func(s *ContentScanner) {
		s.logger = logger
	}
}

// NewContentScanner creates a ContentScanner using rules.TrackerDomainRules by default.
func NewContentScanner(opts ...ContentScannerOption) *ContentScanner {
	s := &ContentScanner{
		rules: rules.TrackerDomainRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Scan analyzes the HTML body. A document that cannot be parsed yields an
// empty result; the failure is logged and never returned.
func (s *ContentScanner) Scan(body string) ContentResult {
	result := ContentResult{
		Scripts:  make([]string, 0),
		Trackers: make([]string, 0),
		Findings: make([]string, 0),
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		s.logger.Error("failed to parse page content", "error", err)
		return result
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script":
				if src, ok := getAttr(n, "src"); ok {
					result.Scripts = append(result.Scripts, src)
				}
			case "iframe":
				result.IframeCount++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, src := range result.Scripts {
		for _, rule := range s.rules {
			if strings.Contains(src, rule.DomainSubstring) {
				result.Trackers = append(result.Trackers, rule.Label)
				result.Findings = append(result.Findings,
					fmt.Sprintf("Tracking script found: %s", rule.Label))
			}
		}
	}

	if result.IframeCount > 0 {
		result.Findings = append(result.Findings,
			fmt.Sprintf("%d iframe(s) detected - possible third-party content", result.IframeCount))
	}

	return result
}

// getAttr returns the value of the named attribute and whether it is present.
func getAttr(n *html.Node, name string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}
