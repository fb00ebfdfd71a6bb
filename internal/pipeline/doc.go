// Package pipeline runs privacy audits as an ordered sequence of steps.
//
// An audit moves through four steps: cookie classification, page fetch,
// content scanning (only when a body was fetched) and URL pattern checks.
// Each step appends its findings to a per-audit State, so the final
// findings are always ordered cookie, content, URL. The Auditor then
// hands the State to report.Build.
//
// Design decision: We use a pipeline of small steps instead of one long
// function because every step logs under its own name and can be tested
// in isolation with a stub fetcher.
//
// BatchProcessor audits several URLs concurrently with errgroup for the
// CLI; the HTTP handler audits one URL per request.
package pipeline
