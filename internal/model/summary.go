package model

import "time"

// RunSummary is a condensed, human-readable view of a research run.
// It extracts the headline numbers from the full report for quick review.
//
// Design decision: We create a separate summary type rather than printing
// parts of ResearchReport directly because:
// 1. It provides a consistent, curated view of a run's outcome
// 2. It can be serialized to JSON for tools that want structured but simple output
// 3. It separates presentation concerns from data collection
type RunSummary struct {
	// TargetWebsite is the researched website.
	TargetWebsite string `json:"target_website"`

	// RunID identifies the pipeline run.
	RunID string `json:"run_id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock duration of the run.
	Duration time.Duration `json:"duration"`

	// QuestionsFetched is the number of raw questions collected.
	QuestionsFetched int `json:"questions_fetched"`

	// QuestionsKept is the number of questions after cleaning/dedup.
	QuestionsKept int `json:"questions_kept"`

	// PagesScraped is the number of website pages scraped.
	PagesScraped int `json:"pages_scraped"`

	// Subreddits are the suggested communities, if the analysis succeeded.
	Subreddits []string `json:"subreddits,omitempty"`

	// StageResults records per-stage outcomes in execution order.
	StageResults []StageResult `json:"stage_results,omitempty"`

	// SheetStatus is the last status string written to the spreadsheet.
	SheetStatus string `json:"sheet_status,omitempty"`

	// Error contains the fatal error message if the run failed.
	Error string `json:"error,omitempty"`
}

// NewRunSummary builds a RunSummary from a full research report.
func NewRunSummary(r *ResearchReport) *RunSummary {
	s := &RunSummary{
		TargetWebsite:    r.TargetWebsite,
		RunID:            r.RunID,
		StartedAt:        r.StartedAt,
		QuestionsFetched: len(r.Questions),
		QuestionsKept:    len(r.CleanedQuestions),
		PagesScraped:     len(r.ScrapedPages),
		Subreddits:       r.Subreddits,
		StageResults:     r.StageResults,
		SheetStatus:      r.SheetStatus,
		Error:            r.ErrorMessage,
	}
	if !r.FinishedAt.IsZero() {
		s.Duration = r.FinishedAt.Sub(r.StartedAt)
	}
	return s
}
