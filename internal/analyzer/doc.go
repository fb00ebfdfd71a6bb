// Package analyzer implements the three pattern-matching passes of a privacy audit.
//
// # Analyzers
//
//   - CookieClassifier: maps cookie names to a label, category and risk tier
//     using first-match-wins substring matching against rules.CookieRules.
//   - ContentScanner: parses fetched HTML for third-party script sources and
//     iframes. Every tracker rule that matches a script contributes a finding.
//   - URLScanner: checks the audited host against high-risk domains and the
//     URL against tracking parameter markers.
//
// # Match semantics
//
// The cookie pass stops at the first matching rule while the domain passes
// record every matching rule. Both behaviors are observable in the output
// (finding counts feed the score), so they are kept distinct on purpose.
//
// # Usage
//
//	classifier := analyzer.NewCookieClassifier()
//	cookies := classifier.Classify([]string{"_ga", "session_id"})
//
//	content := analyzer.NewContentScanner().Scan(body)
//	urls := analyzer.NewURLScanner().Scan(rawURL, analyzer.ExtractDomain(rawURL))
//
// All analyzers are stateless after construction and safe for concurrent use.
package analyzer
