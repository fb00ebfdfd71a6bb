// Package main provides the entry point for the privacyaudit CLI.
//
// privacyaudit estimates how much a web page exposes its visitors to
// tracking. It can run as the HTTP backend of the browser extension or
// audit URLs directly from the command line.
//
// Usage:
//
//	privacyaudit serve
//	privacyaudit audit https://example.com --cookie _ga
//
// See --help for all available options.
package main

// main is the entry point for privacyaudit.
func main() {
	Execute()
}
