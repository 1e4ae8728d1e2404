package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/audiencelab/seoscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display after a research run.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output, such as the full
	// question list and industry profile text.
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
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.ResearchReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeStages(&sb, report.StageResults)
	w.writeResults(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs the run summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Target:    %s\n", summary.TargetWebsite))
	sb.WriteString(fmt.Sprintf("Run:       %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Started:   %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", summary.Duration))
	sb.WriteString(fmt.Sprintf("Questions: %d fetched, %d kept\n", summary.QuestionsFetched, summary.QuestionsKept))
	sb.WriteString(fmt.Sprintf("Pages:     %d scraped\n", summary.PagesScraped))
	if summary.SheetStatus != "" {
		sb.WriteString(fmt.Sprintf("Sheet:     %s\n", summary.SheetStatus))
	}
	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:     %s\n", summary.Error))
	}

	w.writeStages(&sb, summary.StageResults)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ResearchReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      SEO RESEARCH REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target Website: %s\n", report.TargetWebsite))
	sb.WriteString(fmt.Sprintf("Run ID:         %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Started:        %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))

	if report.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", report.ErrorMessage))
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeStages writes the per-stage outcome section.
func (w *SimpleWriter) writeStages(sb *strings.Builder, stages []model.StageResult) {
	if len(stages) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PIPELINE STAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, s := range stages {
		mark := "ok"
		if !s.OK {
			mark = "FAILED"
		}
		sb.WriteString(fmt.Sprintf("  [%-6s] %s", mark, s.Stage))
		if s.Detail != "" {
			sb.WriteString(fmt.Sprintf(" - %s", s.Detail))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeResults writes the collected data and analysis sections.
func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.ResearchReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Questions fetched: %d\n", len(report.Questions)))
	sb.WriteString(fmt.Sprintf("  Questions kept:    %d\n", len(report.CleanedQuestions)))
	sb.WriteString(fmt.Sprintf("  Pages scraped:     %d\n", len(report.ScrapedPages)))
	sb.WriteString("\n")

	if len(report.Subreddits) > 0 {
		sb.WriteString("  Suggested communities:\n")
		for _, sub := range report.Subreddits {
			sb.WriteString(fmt.Sprintf("    * %s\n", sub))
		}
		sb.WriteString("\n")
	}

	if report.SheetStatus != "" {
		sb.WriteString(fmt.Sprintf("  Spreadsheet status: %s\n", report.SheetStatus))
		sb.WriteString("\n")
	}

	if !w.verbose {
		return
	}

	if len(report.CleanedQuestions) > 0 {
		sb.WriteString("  Questions:\n")
		for _, q := range report.CleanedQuestions {
			sb.WriteString(fmt.Sprintf("    * %s\n", q))
		}
		sb.WriteString("\n")
	}

	if report.IndustryProfile != "" {
		sb.WriteString("  Business profile:\n")
		for _, line := range strings.Split(report.IndustryProfile, "\n") {
			sb.WriteString("    " + line + "\n")
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by seoscan\n")
	sb.WriteString("https://github.com/audiencelab/seoscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
