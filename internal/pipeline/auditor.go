package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nao1215/privacyaudit/internal/analyzer"
	"github.com/nao1215/privacyaudit/internal/fetcher"
	"github.com/nao1215/privacyaudit/internal/model"
	"github.com/nao1215/privacyaudit/internal/report"
)

// Request is a single audit request.
type Request struct {
	// URL is the page to audit. Required.
	URL string

	// Cookies are the cookie names present in the browser for URL.
	Cookies []string
}

// Auditor runs the audit steps and builds the report.
// An Auditor holds no per-request state and is safe for concurrent use.
type Auditor struct {
	fetcher    fetcher.Fetcher
	classifier *analyzer.CookieClassifier
	content    *analyzer.ContentScanner
	urls       *analyzer.URLScanner
	logger     *slog.Logger
}

// AuditorOption configures an Auditor.
type AuditorOption func(*Auditor)

// WithAuditLogger sets the logger for the auditor and its steps.
func WithAuditLogger(logger *slog.Logger) AuditorOption {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// WithCookieClassifier replaces the default cookie classifier.
func WithCookieClassifier(c *analyzer.CookieClassifier) AuditorOption {
	return func(a *Auditor) {
		a.classifier = c
	}
}

// WithContentScanner replaces the default content scanner.
func WithContentScanner(s *analyzer.ContentScanner) AuditorOption {
	return func(a *Auditor) {
		a.content = s
	}
}

// WithURLScanner replaces the default URL scanner.
func WithURLScanner(s *analyzer.URLScanner) AuditorOption {
	return func(a *Auditor) {
		a.urls = s
	}
}

// NewAuditor creates an Auditor that fetches pages with f.
func NewAuditor(f fetcher.Fetcher, opts ...AuditorOption) *Auditor {
	a := &Auditor{fetcher: f}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.classifier == nil {
		a.classifier = analyzer.NewCookieClassifier()
	}
	if a.content == nil {
		a.content = analyzer.NewContentScanner(analyzer.WithContentLogger(a.logger))
	}
	if a.urls == nil {
		a.urls = analyzer.NewURLScanner()
	}

	return a
}

// pipeline builds the ordered steps of one audit.
// Findings end up ordered cookie, content, URL.
func (a *Auditor) pipeline() *Pipeline {
	p := New(WithLogger(a.logger))
	p.AddSteps(
		NewCookieStep(a.classifier),
		NewFetchStep(a.fetcher, a.logger),
		NewContentStep(a.content),
		NewURLStep(a.urls),
	)
	return p
}

// Audit audits one URL. It returns ErrMissingURL when req.URL is blank
// and the context error when ctx is cancelled between steps. Fetch
// failures are not errors; they are recorded on the report.
func (a *Auditor) Audit(ctx context.Context, req Request) (*model.PrivacyReport, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, ErrMissingURL
	}

	a.logger.Info("analyzing url", "url", req.URL)
	a.logger.Info("cookies received", "count", len(req.Cookies))
	a.logger.Debug("audit request", "url", req.URL, "cookie_names", req.Cookies)

	state := &State{
		URL:         req.URL,
		Domain:      analyzer.ExtractDomain(req.URL),
		CookieNames: req.Cookies,
	}

	if err := a.pipeline().Execute(ctx, state); err != nil {
		return nil, err
	}

	return report.Build(report.Input{
		URL:             state.URL,
		Domain:          state.Domain,
		Findings:        state.Findings,
		Warnings:        state.Warnings,
		Cookies:         state.Cookies.Summary(),
		PageAccessible:  state.PageAccessible,
		PageAccessError: state.PageAccessError,
	}), nil
}
