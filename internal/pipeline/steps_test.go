package pipeline

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/privacyaudit/internal/analyzer"
	"github.com/nao1215/privacyaudit/internal/fetcher"
)

// stubFetcher returns a fixed body or error.
func stubFetcher(body string, err error) fetcher.Fetcher {
	return fetcher.Func(func(context.Context, string) (string, error) {
		return body, err
	})
}

// TestFetchStep tests how fetch failures are recorded.
func TestFetchStep(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		body         string
		err          error
		accessible   bool
		accessError  string
		wantWarnings []string
	}{
		{
			name:       "success",
			body:       "<html></html>",
			accessible: true,
		},
		{
			name:       "empty body is accessible",
			body:       "",
			accessible: true,
		},
		{
			name:         "forbidden adds warning",
			err:          &fetcher.FetchError{Kind: fetcher.FailureForbidden, StatusCode: 403},
			accessError:  "Site blocked automated access (403 Forbidden)",
			wantWarnings: []string{ForbiddenWarning},
		},
		{
			name:        "unauthorized has no warning",
			err:         &fetcher.FetchError{Kind: fetcher.FailureUnauthorized, StatusCode: 401},
			accessError: "Site requires authentication (401)",
		},
		{
			name:        "other status",
			err:         &fetcher.FetchError{Kind: fetcher.FailureHTTPStatus, StatusCode: 503},
			accessError: "HTTP error: 503",
		},
		{
			name:        "connection error",
			err:         &fetcher.FetchError{Kind: fetcher.FailureConnection, Err: errors.New("refused")},
			accessError: "Connection error: refused",
		},
		{
			name:        "plain error is treated as connection error",
			err:         errors.New("dial failed"),
			accessError: "Connection error: dial failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			state := &State{URL: "https://example.com"}
			step := NewFetchStep(stubFetcher(tc.body, tc.err), nil)

			if err := step.Do(context.Background(), state); err != nil {
				t.Fatalf("fetch failures must not fail the step: %v", err)
			}
			if state.PageAccessible != tc.accessible {
				t.Errorf("expected accessible=%v, got %v", tc.accessible, state.PageAccessible)
			}
			if state.PageAccessError != tc.accessError {
				t.Errorf("expected access error %q, got %q", tc.accessError, state.PageAccessError)
			}
			if !slices.Equal(state.Warnings, tc.wantWarnings) {
				t.Errorf("expected warnings %v, got %v", tc.wantWarnings, state.Warnings)
			}
			if state.Body != tc.body {
				t.Errorf("expected body %q, got %q", tc.body, state.Body)
			}
		})
	}
}

// TestContentStep tests that content is scanned only when a body exists.
func TestContentStep(t *testing.T) {
	t.Parallel()

	step := NewContentStep(analyzer.NewContentScanner())

	t.Run("skips empty body", func(t *testing.T) {
		t.Parallel()

		state := &State{}
		if err := step.Do(context.Background(), state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(state.Findings) != 0 {
			t.Errorf("expected no findings, got %v", state.Findings)
		}
	})

	t.Run("scans body", func(t *testing.T) {
		t.Parallel()

		state := &State{Body: `<script src="https://www.googletagmanager.com/gtm.js"></script><iframe></iframe>`}
		if err := step.Do(context.Background(), state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{
			"Tracking script found: Google Tag Manager",
			"1 iframe(s) detected - possible third-party content",
		}
		if !slices.Equal(state.Findings, want) {
			t.Errorf("expected %v, got %v", want, state.Findings)
		}
	})
}

// TestCookieAndURLSteps tests the two table-driven steps.
func TestCookieAndURLSteps(t *testing.T) {
	t.Parallel()

	state := &State{
		URL:         "https://www.tiktok.com/?utm_source=x",
		Domain:      "www.tiktok.com",
		CookieNames: []string{"_ga"},
	}

	if err := NewCookieStep(analyzer.NewCookieClassifier()).Do(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewURLStep(analyzer.NewURLScanner()).Do(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.Cookies.TrackingCount != 1 {
		t.Errorf("expected 1 tracking cookie, got %d", state.Cookies.TrackingCount)
	}
	if len(state.Findings) != 3 {
		t.Fatalf("expected 3 findings, got %v", state.Findings)
	}
	if !strings.Contains(state.Findings[0], "_ga") {
		t.Errorf("expected cookie finding first, got %q", state.Findings[0])
	}
	if state.Findings[2] != "Tracking parameters detected in URL" {
		t.Errorf("expected tracking parameter finding last, got %q", state.Findings[2])
	}
}
