package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/audiencelab/seoscan/internal/config"
	"github.com/audiencelab/seoscan/internal/llm"
	"github.com/audiencelab/seoscan/internal/model"
	"github.com/audiencelab/seoscan/internal/textclean"
)

// QuestionFetcher collects audience questions from forum communities.
// Implemented by forum.Client.
type QuestionFetcher interface {
	FetchQuestions(ctx context.Context, subreddits []string, limit int) ([]model.Question, error)
}

// SiteScraper extracts text from the target website.
// Implemented by scraper.Scraper.
type SiteScraper interface {
	Scrape(ctx context.Context, target string) ([]model.ScrapedPage, error)
}

// ClusterDispatcher sends cleaned questions to the clustering service.
// Implemented by cluster.Client.
type ClusterDispatcher interface {
	Dispatch(ctx context.Context, targetWebsite string, questions []string) (string, error)
}

// Analyzer produces the business profile and community suggestions.
// Implemented by llm.Client.
type Analyzer interface {
	AnalyzeProfile(ctx context.Context, siteText string, questions []string) (string, error)
	SuggestSubreddits(ctx context.Context, profile string) ([]string, error)
}

// SheetWriter writes run results into the shared spreadsheet.
// Implemented by sheets.Client.
type SheetWriter interface {
	SetStatus(ctx context.Context, status string) error
	AddIndustryTab(ctx context.Context, targetWebsite, profile string) error
	AddSubredditTab(ctx context.Context, subreddits []string) error
}

// FetchQuestionsStep collects raw questions from the configured forum
// communities. This is the only fatal step: every later stage consumes
// its output, so a fetch failure halts the pipeline.
type FetchQuestionsStep struct {
	// fetcher is the forum API client.
	fetcher QuestionFetcher

	// subreddits are the communities to fetch from.
	subreddits []string

	// limit is the per-community question cap.
	limit int

	// logger for structured logging.
	logger *slog.Logger
}

// FetchQuestionsStepOption configures a FetchQuestionsStep.
type FetchQuestionsStepOption func(*FetchQuestionsStep)

// WithFetchSubreddits sets the communities to fetch from.
func WithFetchSubreddits(subreddits []string) FetchQuestionsStepOption {
	return func(s *FetchQuestionsStep) {
		if len(subreddits) > 0 {
			s.subreddits = subreddits
		}
	}
}

// WithFetchLimit sets the per-community question cap.
func WithFetchLimit(limit int) FetchQuestionsStepOption {
	return func(s *FetchQuestionsStep) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchQuestionsStepOption {
	return func(s *FetchQuestionsStep) {
		s.logger = logger
	}
}

// NewFetchQuestionsStep creates a new question fetch step.
func NewFetchQuestionsStep(fetcher QuestionFetcher, opts ...FetchQuestionsStepOption) *FetchQuestionsStep {
	s := &FetchQuestionsStep{
		fetcher:    fetcher,
		subreddits: config.DefaultSubreddits,
		limit:      config.DefaultQuestionLimit,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchQuestionsStep) Name() string {
	return model.StageFetch
}

// Do executes the question fetch step.
func (s *FetchQuestionsStep) Do(ctx context.Context, report *model.ResearchReport) error {
	questions, err := s.fetcher.FetchQuestions(ctx, s.subreddits, s.limit)
	report.RecordStage(model.StageFetch, err)
	if err != nil {
		return fmt.Errorf("question fetch failed: %w", err)
	}

	for _, q := range questions {
		report.AddQuestion(q)
	}

	s.logger.Info("questions fetched",
		"target", report.TargetWebsite,
		"count", len(questions),
	)
	return nil
}

// ScrapeSiteStep extracts text from the target website's navigation
// pages. Scrape failures are recorded but never abort the run; the
// analysis prompt simply carries less site context.
type ScrapeSiteStep struct {
	// scraper fetches and parses the target website.
	scraper SiteScraper

	// logger for structured logging.
	logger *slog.Logger
}

// NewScrapeSiteStep creates a new site scrape step.
func NewScrapeSiteStep(scraper SiteScraper, logger *slog.Logger) *ScrapeSiteStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScrapeSiteStep{scraper: scraper, logger: logger}
}

// Name returns the step name.
func (s *ScrapeSiteStep) Name() string {
	return model.StageScrape
}

// Do executes the site scrape step.
func (s *ScrapeSiteStep) Do(ctx context.Context, report *model.ResearchReport) error {
	// The report carries the display form of the target; requests need
	// the scheme-qualified URL.
	full, _, err := model.NormalizeTarget(report.TargetWebsite)
	if err != nil {
		report.RecordStage(model.StageScrape, err)
		return nil
	}

	pages, err := s.scraper.Scrape(ctx, full)
	report.RecordStage(model.StageScrape, err)
	if err != nil {
		s.logger.Warn("site scrape failed",
			"target", report.TargetWebsite,
			"error", err,
		)
		return nil
	}

	for _, p := range pages {
		report.AddPage(p)
	}

	s.logger.Info("site scraped",
		"target", report.TargetWebsite,
		"pages", len(pages),
	)
	return nil
}

// CleanStep normalizes and deduplicates the fetched question text.
// This is a pure in-memory transformation with no failure modes.
type CleanStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// NewCleanStep creates a new cleaning step.
func NewCleanStep(logger *slog.Logger) *CleanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanStep{logger: logger}
}

// Name returns the step name.
func (s *CleanStep) Name() string {
	return model.StageClean
}

// Do executes the cleaning step.
func (s *CleanStep) Do(_ context.Context, report *model.ResearchReport) error {
	raw := make([]string, 0, len(report.Questions))
	for _, q := range report.Questions {
		raw = append(raw, q.Text)
	}

	report.CleanedQuestions = textclean.Questions(raw)
	report.RecordStage(model.StageClean, nil)

	s.logger.Info("questions cleaned",
		"target", report.TargetWebsite,
		"raw", len(raw),
		"kept", len(report.CleanedQuestions),
	)
	return nil
}

// ClusterStep sends the cleaned questions to the clustering service.
// The response body is stored for inspection but never parsed, and a
// failure here never aborts the run.
type ClusterStep struct {
	// dispatcher is the clustering service client.
	dispatcher ClusterDispatcher

	// logger for structured logging.
	logger *slog.Logger
}

// NewClusterStep creates a new clustering dispatch step.
func NewClusterStep(dispatcher ClusterDispatcher, logger *slog.Logger) *ClusterStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClusterStep{dispatcher: dispatcher, logger: logger}
}

// Name returns the step name.
func (s *ClusterStep) Name() string {
	return model.StageCluster
}

// Do executes the clustering dispatch step.
func (s *ClusterStep) Do(ctx context.Context, report *model.ResearchReport) error {
	body, err := s.dispatcher.Dispatch(ctx, report.TargetWebsite, report.CleanedQuestions)
	report.ClusterResponse = body
	report.RecordStage(model.StageCluster, err)
	if err != nil {
		s.logger.Warn("clustering dispatch failed",
			"target", report.TargetWebsite,
			"error", err,
		)
	}
	return nil
}

// AnalyzeStep asks the language model for a business profile and
// community suggestions. A failed analysis yields the canned fallback
// profile so the spreadsheet always receives a complete row.
type AnalyzeStep struct {
	// analyzer is the language-model client.
	analyzer Analyzer

	// logger for structured logging.
	logger *slog.Logger
}

// NewAnalyzeStep creates a new analysis step.
func NewAnalyzeStep(analyzer Analyzer, logger *slog.Logger) *AnalyzeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStep{analyzer: analyzer, logger: logger}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return model.StageAnalyze
}

// Do executes the analysis step.
func (s *AnalyzeStep) Do(ctx context.Context, report *model.ResearchReport) error {
	profile, err := s.analyzer.AnalyzeProfile(ctx, report.SiteText(), report.CleanedQuestions)
	if err != nil {
		report.IndustryProfile = llm.FallbackProfile
		report.RecordStage(model.StageAnalyze, err)
		s.logger.Warn("analysis failed, using fallback profile",
			"target", report.TargetWebsite,
			"error", err,
		)
		return nil
	}
	report.IndustryProfile = profile

	subreddits, err := s.analyzer.SuggestSubreddits(ctx, profile)
	report.RecordStage(model.StageAnalyze, err)
	if err != nil {
		s.logger.Warn("community suggestion failed",
			"target", report.TargetWebsite,
			"error", err,
		)
		return nil
	}
	report.Subreddits = subreddits

	s.logger.Info("analysis completed",
		"target", report.TargetWebsite,
		"subreddits", len(subreddits),
	)
	return nil
}

// SheetsStep writes the run results into the shared spreadsheet: the
// industry and community tabs plus a final status cell. Write failures
// are recorded but never abort the run; the report still carries all
// collected data.
type SheetsStep struct {
	// writer is the spreadsheet client.
	writer SheetWriter

	// logger for structured logging.
	logger *slog.Logger
}

// NewSheetsStep creates a new spreadsheet write step.
func NewSheetsStep(writer SheetWriter, logger *slog.Logger) *SheetsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetsStep{writer: writer, logger: logger}
}

// Name returns the step name.
func (s *SheetsStep) Name() string {
	return model.StageSheets
}

// Do executes the spreadsheet write step.
func (s *SheetsStep) Do(ctx context.Context, report *model.ResearchReport) error {
	var firstErr error

	if report.IndustryProfile != "" {
		if err := s.writer.AddIndustryTab(ctx, report.TargetWebsite, report.IndustryProfile); err != nil {
			firstErr = err
			s.logger.Warn("industry tab write failed", "error", err)
		}
	}

	if len(report.Subreddits) > 0 {
		if err := s.writer.AddSubredditTab(ctx, report.Subreddits); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Warn("subreddit tab write failed", "error", err)
		}
	}

	status := fmt.Sprintf("✅ Research complete for: %s", report.TargetWebsite)
	if firstErr != nil || s.anyStageFailed(report) {
		status = fmt.Sprintf("⚠️ Research completed with errors for: %s", report.TargetWebsite)
	}
	if err := s.writer.SetStatus(ctx, status); err != nil {
		if firstErr == nil {
			firstErr = err
		}
		s.logger.Warn("status cell write failed", "error", err)
	} else {
		report.SheetStatus = status
	}

	report.RecordStage(model.StageSheets, firstErr)
	return nil
}

// anyStageFailed reports whether any recorded stage before this one failed.
func (s *SheetsStep) anyStageFailed(report *model.ResearchReport) bool {
	for _, r := range report.StageResults {
		if !r.OK {
			return true
		}
	}
	return false
}

// Deps bundles the external clients the default pipeline needs.
// Nil optional clients (Cluster, Analyzer, Sheets, Scraper) skip the
// corresponding step.
type Deps struct {
	// Fetcher collects questions from the forum API. Required.
	Fetcher QuestionFetcher

	// Scraper extracts text from the target website. Optional.
	Scraper SiteScraper

	// Cluster dispatches cleaned questions to the clustering service.
	// Optional.
	Cluster ClusterDispatcher

	// Analyzer produces the business profile. Optional.
	Analyzer Analyzer

	// Sheets writes results into the shared spreadsheet. Optional.
	Sheets SheetWriter

	// Subreddits are the communities to fetch questions from.
	Subreddits []string

	// QuestionLimit is the per-community question cap.
	QuestionLimit int

	// Logger for all steps. Defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultPipeline creates a pipeline with the standard research steps in
// order: fetch, scrape, clean, cluster, analyze, sheets. Steps whose
// client is nil are left out.
//
// Design decision: We provide a default pipeline because:
// 1. Most runs want the full sequence
// 2. It reduces boilerplate in the CLI
// 3. It ensures consistent ordering
func DefaultPipeline(deps Deps, opts ...Option) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts) == 0 {
		opts = []Option{WithLogger(logger)}
	}

	p := New(opts...)

	p.AddStep(NewFetchQuestionsStep(deps.Fetcher,
		WithFetchSubreddits(deps.Subreddits),
		WithFetchLimit(deps.QuestionLimit),
		WithFetchLogger(logger),
	))
	if deps.Scraper != nil {
		p.AddStep(NewScrapeSiteStep(deps.Scraper, logger))
	}
	p.AddStep(NewCleanStep(logger))
	if deps.Cluster != nil {
		p.AddStep(NewClusterStep(deps.Cluster, logger))
	}
	if deps.Analyzer != nil {
		p.AddStep(NewAnalyzeStep(deps.Analyzer, logger))
	}
	if deps.Sheets != nil {
		p.AddStep(NewSheetsStep(deps.Sheets, logger))
	}

	return p
}
