package model

// StatusSuccess is the only status value a completed audit carries.
// Failures never produce a PrivacyReport; they are reported as HTTP errors.
const StatusSuccess = "success"

// CookieMatch is the classification of a single cookie name.
// One CookieMatch is produced per input cookie, in input order.
type CookieMatch struct {
	// Name is the cookie name exactly as supplied by the client.
	Name string `json:"cookie"`

	// Label is the human-readable name of the matched pattern
	// (e.g. "Google Analytics"), or "Unknown" when nothing matched.
	Label string `json:"type"`

	// Category is the category of the matched pattern.
	Category Category `json:"category"`

	// Risk is the risk tier of the matched pattern.
	Risk RiskTier `json:"risk"`
}

// CookieSummary aggregates the cookie classification results.
type CookieSummary struct {
	// Total is the number of cookie names supplied.
	Total int `json:"total"`

	// Tracking is the number of cookies whose category is tracking,
	// analytics or advertising.
	Tracking int `json:"tracking"`

	// Categories counts cookies per category. Unknown cookies are not counted.
	Categories map[Category]int `json:"categories"`

	// Details lists every classified cookie in input order.
	Details []CookieMatch `json:"details"`
}

// Classification is the tier a privacy score falls into.
type Classification struct {
	// Label is the human-readable tier (e.g. "Good protection").
	Label string

	// Color is the display color of the tier: green, yellow or red.
	Color string
}

// PrivacyReport is the result of auditing one URL.
// It is built once per request and never stored.
type PrivacyReport struct {
	// URL is the audited URL as supplied by the client.
	URL string `json:"url"`

	// Domain is the host component of URL (no port, no path).
	Domain string `json:"domain"`

	// Status is always StatusSuccess for a built report.
	Status string `json:"status"`

	// PageAccessible is true when the page fetch returned a body.
	PageAccessible bool `json:"page_accessible"`

	// PageAccessError describes why the page could not be fetched.
	// Empty when PageAccessible is true.
	PageAccessError string `json:"page_access_error,omitempty"`

	// PrivacyScore is in [0,100]; higher is better.
	PrivacyScore int `json:"privacy_score"`

	// Classification is the label of the tier PrivacyScore falls into.
	Classification string `json:"classification"`

	// ClassificationColor is the display color of the tier.
	ClassificationColor string `json:"classification_color"`

	// Findings lists risk statements in order: cookie, content, URL.
	// Never empty; a sentinel entry is used when nothing was found.
	Findings []string `json:"risks"`

	// TotalFindings is the number of real findings (the sentinel is not counted).
	TotalFindings int `json:"total_risks"`

	// Warnings lists conditions that limited the analysis.
	Warnings []string `json:"warnings"`

	// Cookies summarizes the cookie classification.
	Cookies CookieSummary `json:"cookies"`

	// Recommendations lists user-facing advice derived from the findings.
	Recommendations []string `json:"recommendations"`
}
