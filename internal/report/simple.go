package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/privacyaudit/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so the output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose adds the per-cookie classification table.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single report in human-readable format.
func (w *SimpleWriter) Write(report *model.PrivacyReport) (int, error) {
	var sb strings.Builder

	w.writeReport(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteAll outputs every report one after another.
func (w *SimpleWriter) WriteAll(reports []*model.PrivacyReport) (int, error) {
	var sb strings.Builder

	for _, r := range reports {
		w.writeReport(&sb, r)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.PrivacyReport) {
	w.writeHeader(sb, report)
	w.writeSection(sb, "RISKS", report.Findings, "*")
	if len(report.Warnings) > 0 {
		w.writeSection(sb, "WARNINGS", report.Warnings, "!")
	}
	w.writeCookies(sb, report)
	w.writeSection(sb, "RECOMMENDATIONS", report.Recommendations, "->")
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.PrivacyReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                       PRIVACY AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:            %s\n", report.URL)
	fmt.Fprintf(sb, "Domain:         %s\n", report.Domain)
	fmt.Fprintf(sb, "Privacy Score:  %d/%d\n", report.PrivacyScore, MaxScore)
	fmt.Fprintf(sb, "Classification: %s [%s]\n", report.Classification, strings.ToUpper(report.ClassificationColor))

	switch {
	case report.PageAccessible:
		sb.WriteString("Page:           Analyzed\n")
	case report.PageAccessError != "":
		fmt.Fprintf(sb, "Page:           NOT ANALYZED - %s\n", report.PageAccessError)
	default:
		sb.WriteString("Page:           NOT ANALYZED\n")
	}

	sb.WriteString("\n")
}

// writeSection writes a titled list of lines.
func (w *SimpleWriter) writeSection(sb *strings.Builder, title string, lines []string, bullet string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")

	for _, line := range lines {
		fmt.Fprintf(sb, "  %s %s\n", bullet, line)
	}
	sb.WriteString("\n")
}

// writeCookies writes the cookie summary and, when verbose, every classification.
func (w *SimpleWriter) writeCookies(sb *strings.Builder, report *model.PrivacyReport) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("COOKIES\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  TOTAL:    %d\n", report.Cookies.Total)
	fmt.Fprintf(sb, "  TRACKING: %d\n", report.Cookies.Tracking)

	if w.verbose && len(report.Cookies.Details) > 0 {
		sb.WriteString("\n")
		for _, c := range report.Cookies.Details {
			fmt.Fprintf(sb, "  [%s] %s: %s (%s)\n", w.riskIndicator(c.Risk), c.Name, c.Label, c.Category)
		}
	}
	sb.WriteString("\n")
}

// riskIndicator returns a visual indicator for the risk tier.
func (w *SimpleWriter) riskIndicator(risk model.RiskTier) string {
	switch risk {
	case model.RiskHigh:
		return "!!"
	case model.RiskMedium:
		return "!"
	default:
		return "-"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by privacyaudit\n")
	sb.WriteString("https://github.com/nao1215/privacyaudit\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
