package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiencelab/seoscan/internal/cluster"
	"github.com/audiencelab/seoscan/internal/config"
	"github.com/audiencelab/seoscan/internal/database"
	"github.com/audiencelab/seoscan/internal/forum"
	"github.com/audiencelab/seoscan/internal/llm"
	"github.com/audiencelab/seoscan/internal/log"
	"github.com/audiencelab/seoscan/internal/model"
	"github.com/audiencelab/seoscan/internal/pipeline"
	"github.com/audiencelab/seoscan/internal/report"
	"github.com/audiencelab/seoscan/internal/scraper"
	"github.com/audiencelab/seoscan/internal/sheets"
)

// NewResearchCmd creates the research command.
func NewResearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research [target-website]",
		Short: "Run the audience research pipeline for a target website",
		Long: `Research runs the full audience research pipeline for a target website.

The pipeline:
- Fetches hot questions from the configured forum communities
- Scrapes the target site's navigation pages for context
- Cleans and deduplicates the question text
- Optionally dispatches the questions to a clustering service
- Asks a language model for a business profile and relevant communities
- Writes the results into the shared spreadsheet

Credentials are read from the environment:
  REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME, REDDIT_PASSWORD
  OPENAI_API_KEY
  CLUSTER_API_KEY (optional), SHEETS_ACCESS_TOKEN (optional)

Examples:
  # Research a single website
  seoscan research example.com

  # Research multiple websites concurrently
  seoscan research example.com other.example

  # Fetch from specific communities
  seoscan research --subreddits marketing,SaaS example.com

  # Output JSON report
  seoscan research --json example.com

  # Use a custom configuration file
  seoscan research -c myconfig.yaml example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runResearchCmd,
	}

	// Pipeline behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultHTTPTimeout,
		"Timeout for each outbound HTTP request")
	cmd.Flags().IntP("limit", "l", config.DefaultQuestionLimit,
		"Number of hot posts fetched per community")
	cmd.Flags().StringSliceP("subreddits", "s", nil,
		"Communities to fetch questions from (default from config file)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of site pages to scrape per run")
	cmd.Flags().DurationP("delay", "d", config.DefaultScrapeDelay,
		"Politeness delay between page fetches")
	cmd.Flags().Bool("skip-scrape", false,
		"Skip the website scraping stage")
	cmd.Flags().Bool("skip-cluster", false,
		"Skip the clustering dispatch stage")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent research runs")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runResearchCmd executes the research command.
func runResearchCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential sanitization
	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runResearch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.HTTPTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.QuestionLimit, err = cmd.Flags().GetInt("limit")
	if err != nil {
		return nil, err
	}

	subreddits, err := cmd.Flags().GetStringSlice("subreddits")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.ScrapeDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.SkipScrape, err = cmd.Flags().GetBool("skip-scrape")
	if err != nil {
		return nil, err
	}

	cfg.SkipCluster, err = cmd.Flags().GetBool("skip-cluster")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load the configuration file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Subreddit precedence: flag > config file > built-in default
	switch {
	case len(subreddits) > 0:
		cfg.Subreddits = subreddits
	case len(cfg.File.Subreddits) > 0:
		cfg.Subreddits = cfg.File.Subreddits
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Get positional arguments (target websites)
	cfg.Targets = args

	return cfg, nil
}

// setupLogger creates a sanitizing structured logger.
// All handlers pass through the secure handler so credentials never
// reach the log output.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// runResearch executes the research runs.
func runResearch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more target websites as arguments)")
	}

	// Credentials are read once here and never mutated afterwards.
	cfg.Credentials = config.LoadCredentials()
	if err := cfg.Credentials.RequireReddit(); err != nil {
		return err
	}
	if err := cfg.Credentials.RequireLLM(); err != nil {
		return err
	}

	logger.Info("starting research",
		"targets", cfg.Targets,
		"subreddits", cfg.Subreddits,
		"batchSize", cfg.BatchSize,
	)

	// Open database connection if saving is enabled
	var db *database.ResearchDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Validate and normalize all targets before any network call.
	// The display form is the correlation key carried through the run.
	for i, target := range cfg.Targets {
		_, display, err := model.NormalizeTarget(target)
		if err != nil {
			return fmt.Errorf("invalid target website %q: %w", target, err)
		}
		cfg.Targets[i] = display
	}

	// Use batch processor for parallel runs if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchResearch(ctx, cfg, db, logger)
	}

	// Single target or sequential runs
	return runSequentialResearch(ctx, cfg, db, logger)
}

// runSequentialResearch researches targets one at a time.
func runSequentialResearch(ctx context.Context, cfg *config.Config, db *database.ResearchDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipelineForTarget(cfg, logger, target)

		runReport := model.NewResearchReport(target)

		fmt.Printf("Researching %s...\n", target)
		startTime := time.Now()

		if err := p.Execute(ctx, runReport); err != nil {
			logger.Error("research run failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Research error for %s: %v\n", target, err)
		}
		runReport.Finish()

		elapsed := time.Since(startTime)
		fmt.Printf("Run completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, runReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		// Save to database if enabled
		if err := saveRunReport(ctx, db, runReport, logger); err != nil {
			logger.Error("failed to save run report", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchResearch researches multiple targets concurrently.
func runBatchResearch(ctx context.Context, cfg *config.Config, db *database.ResearchDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch research of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	// Batch mode applies the file-level defaults only; per-site
	// spreadsheet and community overrides require sequential mode.
	if len(cfg.File.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; per-site overrides are ignored",
			"siteCount", len(cfg.File.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Per-site configurations are ignored in batch mode. Use --batch 1 to apply them.\n\n")
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipelineForTarget(cfg, logger, "")
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(runReport *model.ResearchReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Run completed: %s\n", index+1, len(cfg.Targets), runReport.TargetWebsite)

		if err := outputReport(cfg, runReport); err != nil {
			logger.Error("report failed", "target", runReport.TargetWebsite, "error", err)
		}
		if err := saveRunReport(ctx, db, runReport, logger); err != nil {
			logger.Error("failed to save run report", "target", runReport.TargetWebsite, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch research completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// createPipelineForTarget builds the research pipeline for one target.
// An empty target applies the file-level defaults only (batch mode).
func createPipelineForTarget(cfg *config.Config, logger *slog.Logger, target string) *pipeline.Pipeline {
	siteCfg := cfg.File.GetSiteConfig(target)
	endpoints := cfg.File.Endpoints
	creds := cfg.Credentials

	subreddits := cfg.Subreddits
	if len(siteCfg.Subreddits) > 0 {
		subreddits = siteCfg.Subreddits
	}
	questionLimit := cfg.QuestionLimit
	if siteCfg.QuestionLimit > 0 {
		questionLimit = siteCfg.QuestionLimit
	}
	maxPages := cfg.MaxPages
	if siteCfg.MaxPages > 0 {
		maxPages = siteCfg.MaxPages
	}
	spreadsheetID := cfg.File.SpreadsheetID
	if siteCfg.SpreadsheetID != "" {
		spreadsheetID = siteCfg.SpreadsheetID
	}

	deps := pipeline.Deps{
		Subreddits:    subreddits,
		QuestionLimit: questionLimit,
		Logger:        logger,
	}

	deps.Fetcher = forum.NewClient(forum.Credentials{
		ClientID:     creds.RedditClientID,
		ClientSecret: creds.RedditClientSecret,
		Username:     creds.RedditUsername,
		Password:     creds.RedditPassword,
	},
		forum.WithAuthURL(endpoints.RedditAuthURL),
		forum.WithAPIBaseURL(endpoints.RedditAPIBaseURL),
		forum.WithTimeout(cfg.HTTPTimeout),
		forum.WithLogger(logger),
	)

	if !cfg.SkipScrape {
		deps.Scraper = scraper.New(
			scraper.WithMaxPages(maxPages),
			scraper.WithDelay(cfg.ScrapeDelay),
			scraper.WithTimeout(cfg.HTTPTimeout),
			scraper.WithLogger(logger),
		)
	}

	if !cfg.SkipCluster && cfg.File.Cluster.URL != "" {
		deps.Cluster = cluster.NewClient(cfg.File.Cluster.URL, creds.ClusterAPIKey,
			cluster.WithEventType(cfg.File.Cluster.EventType),
			cluster.WithTimeout(cfg.HTTPTimeout),
			cluster.WithLogger(logger),
		)
	}

	deps.Analyzer = llm.NewClient(creds.LLMAPIKey,
		llm.WithBaseURL(endpoints.LLMBaseURL),
		llm.WithTimeout(cfg.HTTPTimeout),
		llm.WithLogger(logger),
	)

	if spreadsheetID != "" && creds.SheetsAccessToken != "" {
		deps.Sheets = sheets.NewClient(spreadsheetID, creds.SheetsAccessToken,
			sheets.WithBaseURL(endpoints.SheetsBaseURL),
			sheets.WithSheetName(cfg.File.SheetName),
			sheets.WithTimeout(cfg.HTTPTimeout),
			sheets.WithLogger(logger),
		)
	}

	return pipeline.DefaultPipeline(deps, pipeline.WithLogger(logger))
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.ResearchReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may quote scraped site text and questions; keep them
		// owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(runReport)
	return err
}

// saveRunReport saves the run report to the database if enabled.
// If db is nil, this function is a no-op.
func saveRunReport(ctx context.Context, db *database.ResearchDB, runReport *model.ResearchReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveRunReport(ctx, runReport); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}

	logger.Info("run report saved to database", "target", runReport.TargetWebsite)
	return nil
}
