package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/privacyaudit/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.PrivacyReport {
	return Build(Input{
		URL:    "https://example.com/?utm_source=test",
		Domain: "example.com",
		Findings: []string{
			"High-risk cookie detected: Google Analytics (_ga)",
			"Tracking parameters detected in URL",
		},
		Warnings: []string{"Page content could not be analyzed because of site protections"},
		Cookies: model.CookieSummary{
			Total:      2,
			Tracking:   1,
			Categories: map[model.Category]int{model.CategoryAnalytics: 1, model.CategorySession: 1},
			Details: []model.CookieMatch{
				{Name: "_ga", Label: "Google Analytics", Category: model.CategoryAnalytics, Risk: model.RiskHigh},
				{Name: "session_id", Label: "Session", Category: model.CategorySession, Risk: model.RiskLow},
			},
		},
		PageAccessError: "Site blocked automated access (403 Forbidden)",
	})
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"PRIVACY AUDIT REPORT",
			"example.com",
			"Privacy Score:  89/100",
			"Good protection [GREEN]",
			"NOT ANALYZED - Site blocked automated access (403 Forbidden)",
			"RISKS",
			"WARNINGS",
			"Tracking parameters detected in URL",
			"RECOMMENDATIONS",
			RecommendGoogleAlt,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("verbose lists cookies", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!!] _ga: Google Analytics (analytics)") {
			t.Error("expected verbose cookie line")
		}
	})

	t.Run("non-verbose omits cookie lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "_ga: Google Analytics") {
			t.Error("expected no cookie lines without verbose")
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["privacy_score"] != float64(89) {
			t.Errorf("unexpected privacy_score %v", decoded["privacy_score"])
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"url\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("write all produces array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.WriteAll([]*model.PrivacyReport{createTestReport(), createTestReport()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 {
			t.Errorf("expected 2 reports, got %d", len(decoded))
		}
	})

	t.Run("write all with nil is empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteAll(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected [], got %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Privacy Audit Report",
			"Recommendations",
			"Google Analytics",
			"mermaid",
			"session_id",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("write all adds overview", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.WriteAll([]*model.PrivacyReport{createTestReport()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "## example.com") {
			t.Error("expected per-report section")
		}
	})
}

// errWriter fails every write.
type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

// TestMultiWriter tests writing to several destinations.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		n, err := mw.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("expected %d bytes, got %d", a.Len()+b.Len(), n)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(errWriter{}), NewJSONWriter(&b))

		if _, err := mw.WriteAll([]*model.PrivacyReport{createTestReport()}); err == nil {
			t.Fatal("expected error")
		}
		if b.Len() != 0 {
			t.Error("second writer must not be called after an error")
		}
	})
}
