package model

import (
	"time"

	"github.com/google/uuid"
)

// Stage names recorded on the report as the pipeline progresses.
// These are stable identifiers used in logs, reports, and the database.
const (
	StageFetch   = "fetch_questions"
	StageScrape  = "scrape_site"
	StageClean   = "clean"
	StageCluster = "cluster"
	StageAnalyze = "analyze"
	StageSheets  = "sheets_write"
)

// StageResult records the outcome of a single pipeline stage.
//
// Design decision: Each boundary call returns an explicit success/failure
// result recorded here instead of relying on exceptions or a single
// process-wide error. The top-level reporter reads these to compose the
// final status written to the spreadsheet.
type StageResult struct {
	// Stage is one of the Stage* constants.
	Stage string `json:"stage"`

	// OK is true if the stage completed without error.
	OK bool `json:"ok"`

	// Detail holds a short human-readable outcome: an error message on
	// failure, or an optional informational note on success.
	Detail string `json:"detail,omitempty"`
}

// ResearchReport is the main pipeline result structure.
// It accumulates data as each pipeline step runs and is the unit of
// persistence and report output.
//
// Design decision: We use a single large struct rather than many small ones
// to simplify serialization and database storage, mirroring how the report
// flows through every stage as a unit. The TargetWebsite field is the
// correlation key and must never be mutated after normalization.
type ResearchReport struct {
	// === Basic Information ===

	// TargetWebsite is the normalized target website URL.
	// Every stage receives this value unchanged.
	TargetWebsite string `json:"target_website"`

	// RunID uniquely identifies this pipeline run.
	RunID string `json:"run_id"`

	// StartedAt is when the pipeline run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the pipeline run completed (zero while running).
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// === Collected Data ===

	// Questions contains the raw questions collected from the forum API,
	// in fetch order, before cleaning.
	Questions []Question `json:"questions,omitempty"`

	// CleanedQuestions contains the deduplicated, whitespace-normalized
	// question text in first-seen order. Entries are never empty.
	CleanedQuestions []string `json:"cleaned_questions,omitempty"`

	// ScrapedPages contains text extracted from the target website.
	ScrapedPages []ScrapedPage `json:"scraped_pages,omitempty"`

	// === Analysis Results ===

	// IndustryProfile is the structured business profile returned by the
	// language-model analysis, as raw text.
	IndustryProfile string `json:"industry_profile,omitempty"`

	// Subreddits are the suggested communities for the target audience.
	Subreddits []string `json:"subreddits,omitempty"`

	// ClusterResponse is the raw response body from the clustering
	// service. It is logged and stored but never parsed downstream.
	ClusterResponse string `json:"cluster_response,omitempty"`

	// === Outcome ===

	// SheetStatus is the last status string written to the spreadsheet.
	SheetStatus string `json:"sheet_status,omitempty"`

	// StageResults records per-stage outcomes in execution order.
	StageResults []StageResult `json:"stage_results,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the first fatal error, if any. Excluded from JSON;
	// ErrorMessage carries the serializable form.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewResearchReport creates a report for the given normalized target website.
// The run ID is generated here so every stage and log line can carry it.
func NewResearchReport(targetWebsite string) *ResearchReport {
	return &ResearchReport{
		TargetWebsite: targetWebsite,
		RunID:         uuid.NewString(),
		StartedAt:     time.Now(),
	}
}

// AddQuestion appends a collected question to the report.
func (r *ResearchReport) AddQuestion(q Question) {
	r.Questions = append(r.Questions, q)
}

// AddPage appends a scraped page to the report.
func (r *ResearchReport) AddPage(p ScrapedPage) {
	r.ScrapedPages = append(r.ScrapedPages, p)
}

// RecordStage records the outcome of a pipeline stage.
func (r *ResearchReport) RecordStage(stage string, err error) {
	result := StageResult{Stage: stage, OK: err == nil}
	if err != nil {
		result.Detail = err.Error()
	}
	r.StageResults = append(r.StageResults, result)
}

// Finish stamps the completion time and copies any fatal error into its
// serializable form. Call once when the pipeline run ends.
func (r *ResearchReport) Finish() {
	r.FinishedAt = time.Now()
	if r.Error != nil {
		r.ErrorMessage = r.Error.Error()
	}
}

// StageOK reports whether the named stage ran and succeeded.
func (r *ResearchReport) StageOK(stage string) bool {
	for _, s := range r.StageResults {
		if s.Stage == stage {
			return s.OK
		}
	}
	return false
}

// SiteText returns the concatenated text of all scraped pages separated by
// blank lines, matching the shape the analysis prompt expects.
func (r *ResearchReport) SiteText() string {
	var out string
	for _, p := range r.ScrapedPages {
		if p.Text == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += p.Text
	}
	return out
}
