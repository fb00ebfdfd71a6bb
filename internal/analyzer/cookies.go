package analyzer

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/privacyaudit/internal/model"
	"github.com/nao1215/privacyaudit/internal/rules"
)

// unknownCookieLabel is reported for cookies no rule matched.
const unknownCookieLabel = "Unknown"

// elevatedTrackingThreshold is the tracking cookie count above which an
// additional finding is reported.
const elevatedTrackingThreshold = 5

// CookieResult is the output of classifying a list of cookie names.
type CookieResult struct {
	// Matches holds one classification per input name, in input order.
	Matches []model.CookieMatch

	// TrackingCount is the number of matches whose category counts as tracking.
	TrackingCount int

	// Categories counts matches per category. Unknown cookies are not counted.
	Categories map[model.Category]int

	// Findings are the risk statements produced by High and Medium matches,
	// plus one statement when TrackingCount exceeds the elevated threshold.
	Findings []string
}

// Summary converts the result into the report's cookie summary.
func (r CookieResult) Summary() model.CookieSummary {
	return model.CookieSummary{
		Total:      len(r.Matches),
		Tracking:   r.TrackingCount,
		Categories: r.Categories,
		Details:    r.Matches,
	}
}

// CookieClassifier classifies cookie names against an ordered rule table.
type CookieClassifier struct {
	rules []rules.CookieRule
}

// CookieClassifierOption configures a CookieClassifier.
type CookieClassifierOption func(*CookieClassifier)

// WithCookieRules replaces the default cookie table.
// The order of the given rules is the match order.
func WithCookieRules(r []rules.CookieRule) CookieClassifierOption {
	return func(c *CookieClassifier) {
		c.rules = r
	}
}

// NewCookieClassifier creates a CookieClassifier using rules.CookieRules by default.
func NewCookieClassifier(opts ...CookieClassifierOption) *CookieClassifier {
	c := &CookieClassifier{
		rules: rules.CookieRules(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify classifies every name and aggregates the results.
func (c *CookieClassifier) Classify(names []string) CookieResult {
	result := CookieResult{
		Matches:    make([]model.CookieMatch, 0, len(names)),
		Categories: make(map[model.Category]int),
		Findings:   make([]string, 0),
	}

	// A Caser keeps state between calls, so each classification gets its own.
	lower := cases.Lower(language.Und)

	for _, name := range names {
		match := c.match(lower, name)
		result.Matches = append(result.Matches, match)

		if match.Category != model.CategoryUnknown {
			result.Categories[match.Category]++
		}
		if match.Category.IsTracking() {
			result.TrackingCount++
		}

		switch match.Risk {
		case model.RiskHigh:
			result.Findings = append(result.Findings,
				fmt.Sprintf("High-risk cookie detected: %s (%s)", match.Label, match.Name))
		case model.RiskMedium:
			result.Findings = append(result.Findings,
				fmt.Sprintf("Medium-risk cookie: %s", match.Label))
		}
	}

	if result.TrackingCount > elevatedTrackingThreshold {
		result.Findings = append(result.Findings,
			fmt.Sprintf("High number of tracking cookies: %d", result.TrackingCount))
	}

	return result
}

// Match classifies a single cookie name.
func (c *CookieClassifier) Match(name string) model.CookieMatch {
	return c.match(cases.Lower(language.Und), name)
}

func (c *CookieClassifier) match(lower cases.Caser, name string) model.CookieMatch {
	lowered := lower.String(name)
	for _, rule := range c.rules {
		if strings.Contains(lowered, rule.Substring) {
			return model.CookieMatch{
				Name:     name,
				Label:    rule.Label,
				Category: rule.Category,
				Risk:     rule.Risk,
			}
		}
	}
	return model.CookieMatch{
		Name:     name,
		Label:    unknownCookieLabel,
		Category: model.CategoryUnknown,
		Risk:     model.RiskLow,
	}
}
