package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/privacyaudit/internal/analyzer"
	"github.com/nao1215/privacyaudit/internal/fetcher"
)

// ForbiddenWarning is added when the site answered 403 and the page
// content could not be analyzed.
const ForbiddenWarning = "Page content could not be analyzed because of site protections"

// CookieStep classifies the supplied cookie names.
type CookieStep struct {
	classifier *analyzer.CookieClassifier
}

// NewCookieStep creates a cookie classification step.
func NewCookieStep(classifier *analyzer.CookieClassifier) *CookieStep {
	return &CookieStep{classifier: classifier}
}

// Name returns the step name.
func (s *CookieStep) Name() string {
	return "cookies"
}

// Do classifies state.CookieNames and records the cookie findings.
func (s *CookieStep) Do(_ context.Context, state *State) error {
	state.Cookies = s.classifier.Classify(state.CookieNames)
	state.addFindings(state.Cookies.Findings...)
	return nil
}

// FetchStep downloads the audited page.
// A failed fetch never fails the audit; it only marks the page inaccessible.
type FetchStep struct {
	fetcher fetcher.Fetcher
	logger  *slog.Logger
}

// NewFetchStep creates a page fetch step.
func NewFetchStep(f fetcher.Fetcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: f, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches state.URL and records access failures.
func (s *FetchStep) Do(ctx context.Context, state *State) error {
	body, err := s.fetcher.Fetch(ctx, state.URL)
	if err == nil {
		state.Body = body
		state.PageAccessible = true
		return nil
	}

	var fetchErr *fetcher.FetchError
	if !errors.As(err, &fetchErr) {
		state.PageAccessError = fmt.Sprintf("Connection error: %v", err)
		s.logger.Error("failed to access url", "url", state.URL, "error", err)
		return nil
	}

	state.PageAccessError = fetchErr.Reason()
	switch fetchErr.Kind {
	case fetcher.FailureForbidden:
		state.Warnings = append(state.Warnings, ForbiddenWarning)
		s.logger.Warn("failed to access url", "url", state.URL, "reason", state.PageAccessError)
	case fetcher.FailureConnection:
		s.logger.Error("failed to access url", "url", state.URL, "error", fetchErr.Err)
	default:
		s.logger.Warn("failed to access url", "url", state.URL, "reason", state.PageAccessError)
	}
	return nil
}

// ContentStep scans the fetched page for trackers and iframes.
// It does nothing when no body was fetched.
type ContentStep struct {
	scanner *analyzer.ContentScanner
}

// NewContentStep creates a content scanning step.
func NewContentStep(scanner *analyzer.ContentScanner) *ContentStep {
	return &ContentStep{scanner: scanner}
}

// Name returns the step name.
func (s *ContentStep) Name() string {
	return "content"
}

// Do scans state.Body when it is non-empty.
func (s *ContentStep) Do(_ context.Context, state *State) error {
	if state.Body == "" {
		return nil
	}
	result := s.scanner.Scan(state.Body)
	state.addFindings(result.Findings...)
	return nil
}

// URLStep checks the URL and its domain against the static tables.
type URLStep struct {
	scanner *analyzer.URLScanner
}

// NewURLStep creates a URL pattern step.
func NewURLStep(scanner *analyzer.URLScanner) *URLStep {
	return &URLStep{scanner: scanner}
}

// Name returns the step name.
func (s *URLStep) Name() string {
	return "url"
}

// Do scans state.URL and state.Domain.
func (s *URLStep) Do(_ context.Context, state *State) error {
	result := s.scanner.Scan(state.URL, state.Domain)
	state.addFindings(result.Findings...)
	return nil
}
