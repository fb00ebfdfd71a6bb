package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/privacyaudit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, GitHub alerts and mermaid charts
// without hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single report in Markdown format.
func (w *MarkdownWriter) Write(report *model.PrivacyReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Privacy Audit Report")
	md.PlainText("")
	w.writeReport(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteAll outputs every report as a section of one document,
// preceded by an overview table.
func (w *MarkdownWriter) WriteAll(reports []*model.PrivacyReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Privacy Audit Report")
	md.PlainText("")

	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{
			"`" + r.URL + "`",
			strconv.Itoa(r.PrivacyScore),
			colorEmoji(r.ClassificationColor) + " " + r.Classification,
			strconv.Itoa(r.TotalFindings),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Score", "Classification", "Risks"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, r := range reports {
		md.H2(r.Domain)
		md.PlainText("")
		w.writeReport(md, r)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeReport writes the body of one report.
func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.PrivacyReport) {
	w.writeSummary(md, report)
	w.writeAlert(md, report)
	w.writeRisks(md, report)
	w.writeCookies(md, report)
	w.writeRecommendations(md, report)
}

// writeSummary writes the basic info table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.PrivacyReport) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.URL + "`"},
			{"Domain", report.Domain},
			{"Privacy Score", strconv.Itoa(report.PrivacyScore) + " / " + strconv.Itoa(MaxScore)},
			{"Classification", colorEmoji(report.ClassificationColor) + " " + report.Classification},
			{"Page Accessible", w.accessText(report)},
			{"Cookies", strconv.Itoa(report.Cookies.Total) + " (" + strconv.Itoa(report.Cookies.Tracking) + " tracking)"},
		},
	})
	md.PlainText("")
}

// accessText returns the page access text based on report state.
func (w *MarkdownWriter) accessText(report *model.PrivacyReport) string {
	if report.PageAccessible {
		return "✅ Yes"
	}
	if report.PageAccessError != "" {
		return "❌ No - " + report.PageAccessError
	}
	return "❌ No"
}

// writeAlert writes an alert matching the classification tier.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.PrivacyReport) {
	switch report.ClassificationColor {
	case ClassificationLow.Color:
		md.Cautionf("Privacy score %d: %s.", report.PrivacyScore, report.Classification)
	case ClassificationModerate.Color:
		md.Warningf("Privacy score %d: %s.", report.PrivacyScore, report.Classification)
	default:
		md.Tip("No significant privacy issues detected.")
	}
	md.PlainText("")

	for _, warning := range report.Warnings {
		md.Note(warning)
		md.PlainText("")
	}
}

// writeRisks writes the findings list.
func (w *MarkdownWriter) writeRisks(md *markdown.Markdown, report *model.PrivacyReport) {
	md.H3("Risks")
	md.PlainText("")
	md.BulletList(report.Findings...)
	md.PlainText("")
}

// writeCookies writes the cookie details table and category chart.
func (w *MarkdownWriter) writeCookies(md *markdown.Markdown, report *model.PrivacyReport) {
	md.H3("Cookies")
	md.PlainText("")

	if len(report.Cookies.Details) == 0 {
		md.PlainText("No cookies supplied.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Cookies.Details))
	for i, c := range report.Cookies.Details {
		rows[i] = []string{
			"`" + c.Name + "`",
			c.Label,
			string(c.Category),
			c.Risk.String(),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Cookie", "Type", "Category", "Risk"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(report.Cookies.Categories) > 0 {
		w.writePieChart(md, report.Cookies.Categories)
	}
}

// writePieChart writes a mermaid pie chart for the cookie category distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, categories map[model.Category]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Cookie Categories"),
		piechart.WithShowData(true),
	)

	// Sorted so the same report always renders the same chart.
	keys := make([]string, 0, len(categories))
	for c := range categories {
		keys = append(keys, string(c))
	}
	sort.Strings(keys)

	for _, k := range keys {
		if n := categories[model.Category(k)]; n > 0 {
			chart.LabelAndIntValue(k, uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRecommendations writes the recommendation list.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.PrivacyReport) {
	md.H3("Recommendations")
	md.PlainText("")
	md.BulletList(report.Recommendations...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [privacyaudit](https://github.com/nao1215/privacyaudit)*")
}

// colorEmoji returns the emoji for a classification color.
func colorEmoji(color string) string {
	switch color {
	case ClassificationGood.Color:
		return "🟢"
	case ClassificationModerate.Color:
		return "🟡"
	case ClassificationLow.Color:
		return "🔴"
	default:
		return "⚪"
	}
}
