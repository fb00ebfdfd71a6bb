// Package server exposes the privacy audit over HTTP.
//
// Two endpoints are mounted on a chi router:
//
//	POST /audit   {"url": "...", "cookies": ["_ga", ...]}  -> privacy report
//	GET  /health                                           -> {"status":"healthy","version":"2.0"}
//
// A request without a URL is answered with 400 and {"error":"URL not provided"}
// before anything is fetched. Any other failure, including a recovered panic,
// is answered with 500 and {"error":"Server error: ...","risks":[],"total":0}.
// A page that cannot be fetched is not a failure: the report is still
// returned with 200 and the reason in page_access_error.
//
// Cross-origin requests are allowed from any origin by default so that the
// browser extension can call the API directly.
package server
