package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/audiencelab/seoscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ResearchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStages(md, report.StageResults)
	w.writeQuestions(md, report)
	w.writeAnalysis(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Research Run Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target Website", "`" + summary.TargetWebsite + "`"},
			{"Run ID", summary.RunID},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.String()},
			{"Questions Fetched", strconv.Itoa(summary.QuestionsFetched)},
			{"Questions Kept", strconv.Itoa(summary.QuestionsKept)},
			{"Pages Scraped", strconv.Itoa(summary.PagesScraped)},
		},
	})
	md.PlainText("")

	w.writeStages(md, summary.StageResults)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ResearchReport) {
	md.H1("SEO Research Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target Website", "`" + report.TargetWebsite + "`"},
			{"Run ID", report.RunID},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")

	if report.ErrorMessage != "" {
		md.Warningf("The run failed: %s", report.ErrorMessage)
		md.PlainText("")
	}
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ResearchReport) string {
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeStages writes the per-stage outcome table.
func (w *MarkdownWriter) writeStages(md *markdown.Markdown, stages []model.StageResult) {
	if len(stages) == 0 {
		return
	}

	md.H2("Pipeline Stages")
	md.PlainText("")

	rows := make([][]string, len(stages))
	for i, s := range stages {
		outcome := "✅"
		if !s.OK {
			outcome = "❌"
		}
		detail := s.Detail
		if detail == "" {
			detail = "-"
		}
		rows[i] = []string{s.Stage, outcome, truncateString(detail, 60)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Stage", "Outcome", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeQuestions writes the cleaned question list.
func (w *MarkdownWriter) writeQuestions(md *markdown.Markdown, report *model.ResearchReport) {
	md.H2("Audience Questions")
	md.PlainText("")

	if len(report.CleanedQuestions) == 0 {
		md.PlainText("No questions collected.")
		md.PlainText("")
		return
	}

	md.BulletList(report.CleanedQuestions...)
	md.PlainText("")
}

// writeAnalysis writes the business profile and suggested communities.
func (w *MarkdownWriter) writeAnalysis(md *markdown.Markdown, report *model.ResearchReport) {
	if report.IndustryProfile != "" {
		md.H2("Business Profile")
		md.PlainText("")
		md.PlainText(report.IndustryProfile)
		md.PlainText("")
	}

	if len(report.Subreddits) > 0 {
		md.H2("Relevant Communities")
		md.PlainText("")
		md.BulletList(report.Subreddits...)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seoscan](https://github.com/audiencelab/seoscan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
