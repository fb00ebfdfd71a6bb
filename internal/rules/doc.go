// Package rules holds the static pattern tables used by the analyzers.
//
// Every table is an ordered list of explicit rule records rather than a map
// literal, so that match order is part of the contract:
//   - Cookie rules are evaluated first-match-wins in declaration order.
//   - Tracker domain and high-risk domain rules are evaluated all-match;
//     every rule that matches contributes a finding.
//
// The tables are process-wide constants. Accessors return copies so callers
// can never mutate the shared tables, which makes them safe to use from
// concurrent requests without synchronization.
package rules
