package report

import (
	"slices"
	"strings"

	"github.com/nao1215/privacyaudit/internal/model"
)

// Scoring weights and tier thresholds.
const (
	// MaxScore is the score of a page with no findings and no tracking cookies.
	MaxScore = 100

	// TrackingCookiePenalty is subtracted once per tracking cookie.
	TrackingCookiePenalty = 5

	// FindingPenalty is subtracted once per finding.
	FindingPenalty = 3

	// GoodThreshold is the lowest score classified as good protection.
	GoodThreshold = 80

	// ModerateThreshold is the lowest score classified as moderate protection.
	ModerateThreshold = 50
)

// Classification tiers.
var (
	// ClassificationGood is used for scores >= GoodThreshold.
	ClassificationGood = model.Classification{Label: "Good protection", Color: "green"}

	// ClassificationModerate is used for scores >= ModerateThreshold.
	ClassificationModerate = model.Classification{Label: "Moderate protection", Color: "yellow"}

	// ClassificationLow is used for every lower score.
	ClassificationLow = model.Classification{Label: "Low protection - attention needed", Color: "red"}
)

// NoRiskFinding replaces an empty findings list on the report.
const NoRiskFinding = "No significant risk detected"

// Recommendation texts.
const (
	RecommendBlocker        = "Use a cookie/tracker blocking extension"
	RecommendGoogleAlt      = "Consider alternatives to Google services for better privacy"
	RecommendLimitSocial    = "Limit data sharing with social networks"
	RecommendReadPolicy     = "This site collects a lot of data - read its privacy policy"
	RecommendPrivateBrowser = "Consider using private browsing mode or a privacy-focused browser"
	RecommendKeepMonitoring = "Keep monitoring regularly"
)

const (
	blockerTrackingThreshold = 3
	heavyCollectionThreshold = 5
)

// Input holds everything the report is built from.
type Input struct {
	// URL is the audited URL as supplied by the client.
	URL string

	// Domain is the host extracted from URL.
	Domain string

	// Findings are the aggregated findings in order: cookie, content, URL.
	Findings []string

	// Warnings are conditions that limited the analysis.
	Warnings []string

	// Cookies is the cookie classification summary.
	Cookies model.CookieSummary

	// PageAccessible reports whether the page fetch returned a body.
	PageAccessible bool

	// PageAccessError is the fetch failure reason, if any.
	PageAccessError string
}

// Build assembles a PrivacyReport. It is a pure function of its input.
func Build(in Input) *model.PrivacyReport {
	score := Score(in.Cookies.Tracking, len(in.Findings))
	class := Classify(score)

	findings := slices.Clone(in.Findings)
	if len(findings) == 0 {
		findings = []string{NoRiskFinding}
	}

	warnings := slices.Clone(in.Warnings)
	if warnings == nil {
		warnings = []string{}
	}

	cookies := in.Cookies
	if cookies.Details == nil {
		cookies.Details = []model.CookieMatch{}
	}
	if cookies.Categories == nil {
		cookies.Categories = map[model.Category]int{}
	}

	return &model.PrivacyReport{
		URL:                 in.URL,
		Domain:              in.Domain,
		Status:              model.StatusSuccess,
		PageAccessible:      in.PageAccessible,
		PageAccessError:     in.PageAccessError,
		PrivacyScore:        score,
		Classification:      class.Label,
		ClassificationColor: class.Color,
		Findings:            findings,
		TotalFindings:       len(in.Findings),
		Warnings:            warnings,
		Cookies:             cookies,
		Recommendations:     Recommendations(in.Findings, in.Cookies.Tracking),
	}
}

// Score computes the privacy score, clamped to [0, MaxScore].
func Score(trackingCount, findingCount int) int {
	score := MaxScore - TrackingCookiePenalty*trackingCount - FindingPenalty*findingCount
	return max(0, min(MaxScore, score))
}

// Classify returns the tier a score falls into.
func Classify(score int) model.Classification {
	switch {
	case score >= GoodThreshold:
		return ClassificationGood
	case score >= ModerateThreshold:
		return ClassificationModerate
	default:
		return ClassificationLow
	}
}

// Recommendations derives advice from the findings and tracking cookie count.
// Every rule is checked independently; the fallback is used only when none applies.
func Recommendations(findings []string, trackingCount int) []string {
	recs := make([]string, 0, 2)

	if trackingCount > blockerTrackingThreshold {
		recs = append(recs, RecommendBlocker)
	}
	if anyContains(findings, "Google") {
		recs = append(recs, RecommendGoogleAlt)
	}
	if anyContains(findings, "Facebook", "Meta") {
		recs = append(recs, RecommendLimitSocial)
	}
	if len(findings) > heavyCollectionThreshold {
		recs = append(recs, RecommendReadPolicy, RecommendPrivateBrowser)
	}

	if len(recs) == 0 {
		recs = append(recs, RecommendKeepMonitoring)
	}
	return recs
}

// anyContains reports whether any finding contains any of the words.
func anyContains(findings []string, words ...string) bool {
	return slices.ContainsFunc(findings, func(f string) bool {
		for _, w := range words {
			if strings.Contains(f, w) {
				return true
			}
		}
		return false
	})
}
