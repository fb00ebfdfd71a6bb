package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/privacyaudit/internal/fetcher"
	"github.com/nao1215/privacyaudit/internal/model"
	"github.com/nao1215/privacyaudit/internal/pipeline"
	"github.com/nao1215/privacyaudit/internal/report"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// auditorFunc adapts a function to the Auditor interface.
type auditorFunc func(ctx context.Context, req pipeline.Request) (*model.PrivacyReport, error)

func (f auditorFunc) Audit(ctx context.Context, req pipeline.Request) (*model.PrivacyReport, error) {
	return f(ctx, req)
}

// countingFetcher returns body and counts calls.
func countingFetcher(body string, err error, calls *atomic.Int32) fetcher.Fetcher {
	return fetcher.Func(func(context.Context, string) (string, error) {
		calls.Add(1)
		return body, err
	})
}

func newTestServer(t *testing.T, f fetcher.Fetcher) *httptest.Server {
	t.Helper()
	a := pipeline.NewAuditor(f, pipeline.WithAuditLogger(discardLogger()))
	ts := httptest.NewServer(New(a, WithLogger(discardLogger())).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postAudit(t *testing.T, ts *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, ts.URL+"/audit", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

// TestAuditMissingURL tests that requests without a URL are rejected before any fetch.
func TestAuditMissingURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "empty url", body: `{"url": "", "cookies": ["_ga"]}`},
		{name: "blank url", body: `{"url": "   "}`},
		{name: "null url", body: `{"url": null}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			ts := newTestServer(t, countingFetcher("", nil, &calls))

			resp, data := postAudit(t, ts, tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if got["error"] != "URL not provided" {
				t.Errorf("expected error %q, got %v", "URL not provided", got["error"])
			}
			if calls.Load() != 0 {
				t.Errorf("expected no fetch, got %d", calls.Load())
			}
		})
	}
}

// TestAuditSuccess tests a full audit through the HTTP layer.
func TestAuditSuccess(t *testing.T) {
	t.Parallel()

	page := `<html><head><script src="https://www.google-analytics.com/analytics.js"></script></head><body></body></html>`
	var calls atomic.Int32
	ts := newTestServer(t, countingFetcher(page, nil, &calls))

	resp, data := postAudit(t, ts, `{"url": "https://Example.com/page", "cookies": ["_ga", "session_id"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var got model.PrivacyReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Domain != "example.com" {
		t.Errorf("expected domain example.com, got %q", got.Domain)
	}
	if got.Status != model.StatusSuccess {
		t.Errorf("expected status success, got %q", got.Status)
	}
	if !got.PageAccessible {
		t.Error("expected page to be accessible")
	}
	if got.Cookies.Total != 2 || got.Cookies.Tracking != 1 {
		t.Errorf("expected 2 cookies with 1 tracking, got %+v", got.Cookies)
	}
	if got.TotalFindings != len(got.Findings) {
		t.Errorf("expected total %d, got %d", len(got.Findings), got.TotalFindings)
	}
	want := report.Score(got.Cookies.Tracking, got.TotalFindings)
	if got.PrivacyScore != want {
		t.Errorf("expected score %d, got %d", want, got.PrivacyScore)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", calls.Load())
	}
}

// TestAuditForbiddenPage tests that a blocked page still yields a report.
func TestAuditForbiddenPage(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	forbidden := &fetcher.FetchError{Kind: fetcher.FailureForbidden, StatusCode: http.StatusForbidden}
	ts := newTestServer(t, countingFetcher("", forbidden, &calls))

	resp, data := postAudit(t, ts, `{"url": "https://example.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got model.PrivacyReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.PageAccessible {
		t.Error("expected page to be inaccessible")
	}
	if got.PageAccessError == "" {
		t.Error("expected a page access error")
	}
	if !slices.Contains(got.Warnings, pipeline.ForbiddenWarning) {
		t.Errorf("expected forbidden warning, got %v", got.Warnings)
	}
	if !slices.Equal(got.Findings, []string{report.NoRiskFinding}) {
		t.Errorf("expected only the sentinel finding, got %v", got.Findings)
	}
	if got.PrivacyScore != report.MaxScore {
		t.Errorf("expected score %d, got %d", report.MaxScore, got.PrivacyScore)
	}
}

// TestAuditNonStringCookies tests that non-string cookie names are coerced.
func TestAuditNonStringCookies(t *testing.T) {
	t.Parallel()

	var got pipeline.Request
	a := auditorFunc(func(_ context.Context, req pipeline.Request) (*model.PrivacyReport, error) {
		got = req
		return report.Build(report.Input{URL: req.URL, Domain: "example.com"}), nil
	})
	ts := httptest.NewServer(New(a, WithLogger(discardLogger())).Routes())
	t.Cleanup(ts.Close)

	resp, _ := postAudit(t, ts, `{"url": "https://example.com", "cookies": ["_ga", 123, true, null, {"a": 1}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := []string{"_ga", "123", "true", "null", `{"a":1}`}
	if !slices.Equal(got.Cookies, want) {
		t.Errorf("expected cookies %v, got %v", want, got.Cookies)
	}
}

// TestAuditFailures tests the 500 response shell.
func TestAuditFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		body      string
		auditor   Auditor
		wantError string
	}{
		{
			name: "auditor error",
			body: `{"url": "https://example.com"}`,
			auditor: auditorFunc(func(context.Context, pipeline.Request) (*model.PrivacyReport, error) {
				return nil, errors.New("boom")
			}),
			wantError: "Server error: boom",
		},
		{
			name: "auditor panic",
			body: `{"url": "https://example.com"}`,
			auditor: auditorFunc(func(context.Context, pipeline.Request) (*model.PrivacyReport, error) {
				panic("unexpected")
			}),
			wantError: "Server error: unexpected",
		},
		{
			name:      "malformed json",
			body:      `{"url": `,
			auditor:   auditorFunc(func(context.Context, pipeline.Request) (*model.PrivacyReport, error) { return nil, nil }),
			wantError: "Server error: invalid request body",
		},
		{
			name:      "cookies not a list",
			body:      `{"url": "https://example.com", "cookies": "_ga"}`,
			auditor:   auditorFunc(func(context.Context, pipeline.Request) (*model.PrivacyReport, error) { return nil, nil }),
			wantError: "Server error: invalid request body",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ts := httptest.NewServer(New(tc.auditor, WithLogger(discardLogger())).Routes())
			t.Cleanup(ts.Close)

			resp, data := postAudit(t, ts, tc.body)
			if resp.StatusCode != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", resp.StatusCode)
			}

			var got struct {
				Error string   `json:"error"`
				Risks []string `json:"risks"`
				Total *int     `json:"total"`
			}
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if !strings.HasPrefix(got.Error, tc.wantError) {
				t.Errorf("expected error starting with %q, got %q", tc.wantError, got.Error)
			}
			if got.Risks == nil || len(got.Risks) != 0 {
				t.Errorf("expected empty risks list, got %v", got.Risks)
			}
			if got.Total == nil || *got.Total != 0 {
				t.Errorf("expected total 0, got %v", got.Total)
			}
		})
	}
}

// TestHealth tests the health endpoint.
func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, countingFetcher("", nil, new(atomic.Int32)))

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["status"] != "healthy" || got["version"] != "2.0" {
		t.Errorf("unexpected health body: %v", got)
	}
}

// TestMethodNotAllowed tests that only the documented methods are routed.
func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, countingFetcher("", nil, new(atomic.Int32)))

	resp, err := ts.Client().Get(ts.URL + "/audit")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

// TestCORS tests cross-origin headers.
func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		ts := newTestServer(t, countingFetcher("", nil, new(atomic.Int32)))
		req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, ts.URL+"/audit", nil)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Origin", "chrome-extension://abc")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")

		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			t.Errorf("expected 200 or 204, got %d", resp.StatusCode)
		}
		if resp.Header.Get("Access-Control-Allow-Origin") == "" {
			t.Error("expected Access-Control-Allow-Origin header")
		}
		if !strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost) {
			t.Errorf("expected POST to be allowed, got %q", resp.Header.Get("Access-Control-Allow-Methods"))
		}
	})

	t.Run("simple request", func(t *testing.T) {
		t.Parallel()

		ts := newTestServer(t, countingFetcher("", nil, new(atomic.Int32)))
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, ts.URL+"/health", nil)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Origin", "https://example.com")

		resp, err := ts.Client().Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()

		if resp.Header.Get("Access-Control-Allow-Origin") == "" {
			t.Error("expected Access-Control-Allow-Origin header")
		}
	})
}

// TestServe tests that Serve stops cleanly when the context is cancelled.
func TestServe(t *testing.T) {
	t.Parallel()

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	a := pipeline.NewAuditor(countingFetcher("", nil, new(atomic.Int32)), pipeline.WithAuditLogger(discardLogger()))
	s := New(a, WithLogger(discardLogger()), WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	var resp *http.Response
	for range 50 {
		resp, err = http.Get(url) //nolint:noctx // test helper
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not answer: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// TestCookieNamesUnmarshal tests lenient cookie decoding.
func TestCookieNamesUnmarshal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    CookieNames
		wantErr bool
	}{
		{name: "strings", input: `["_ga", "sid"]`, want: CookieNames{"_ga", "sid"}},
		{name: "null", input: `null`, want: nil},
		{name: "empty", input: `[]`, want: CookieNames{}},
		{name: "mixed", input: `[1, 2.5, false, null]`, want: CookieNames{"1", "2.5", "false", "null"}},
		{name: "null between strings", input: `["_ga", null, 7]`, want: CookieNames{"_ga", "null", "7"}},
		{name: "empty string kept", input: `["", "sid"]`, want: CookieNames{"", "sid"}},
		{name: "object", input: `{"a": 1}`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got CookieNames
			err := json.Unmarshal([]byte(tc.input), &got)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
