// Package report builds privacy reports and writes them in several formats.
//
// Build turns the aggregated analyzer output into a model.PrivacyReport:
// it computes the score, the classification tier and the recommendations.
// It is a pure function so identical input always yields identical reports.
//
// Writers render finished reports for the CLI:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: The same JSON the HTTP endpoint returns
//   - MarkdownWriter: Markdown with tables and a mermaid cookie chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
