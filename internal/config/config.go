package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The source system left most of these implicit ("whatever the HTTP client
// defaults to"); the values here are the documented choices for this
// implementation.
const (
	// DefaultHTTPTimeout applies to every outbound HTTP request. The
	// original relied on client defaults; 30 seconds is generous enough
	// for slow LLM completions while still bounding a stuck call.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultQuestionLimit is the number of hot posts fetched per
	// subreddit. The source fetched a single page of 10.
	DefaultQuestionLimit = 10

	// DefaultMaxPages caps the number of website pages scraped per run.
	// Matches the source's 10-page limit.
	DefaultMaxPages = 10

	// DefaultScrapeDelay is the politeness delay between page fetches.
	// The source slept 2 seconds between requests.
	DefaultScrapeDelay = 2 * time.Second

	// DefaultBatchSize is the number of concurrent research runs when
	// multiple targets are given. Kept small: every run fans out to the
	// same rate-limited third-party APIs.
	DefaultBatchSize = 3

	// DefaultLLMModel is the completion model used for analysis.
	DefaultLLMModel = "gpt-4o-mini"

	// DefaultAnalysisMaxTokens bounds the business-profile completion.
	DefaultAnalysisMaxTokens = 500

	// DefaultSubredditMaxTokens bounds the subreddit-suggestion
	// completion; three subreddit names need very little room.
	DefaultSubredditMaxTokens = 50

	// DefaultUserAgent identifies seoscan in HTTP requests.
	DefaultUserAgent = "seoscan/1.0 (+https://github.com/audiencelab/seoscan)"

	// DefaultDispatchEventType is the event_type sent with remote
	// dispatch and clustering requests.
	DefaultDispatchEventType = "seo-research"

	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"
)

// Default endpoints for the external services. All of them can be
// overridden in the config file, which is also how tests point the
// clients at httptest servers.
const (
	// DefaultRedditAuthURL is the Reddit OAuth token endpoint.
	DefaultRedditAuthURL = "https://www.reddit.com/api/v1/access_token"

	// DefaultRedditAPIBaseURL is the authenticated Reddit API host.
	DefaultRedditAPIBaseURL = "https://oauth.reddit.com"

	// DefaultLLMBaseURL is the OpenAI-compatible completion host.
	DefaultLLMBaseURL = "https://api.openai.com"

	// DefaultSheetsBaseURL is the Google Sheets values API host.
	DefaultSheetsBaseURL = "https://sheets.googleapis.com"
)

// DefaultSubreddits are the communities scraped when neither the config
// file nor the LLM suggestion provides a list. Taken from the source
// system's hard-coded list.
var DefaultSubreddits = []string{"marketing", "Entrepreneur", "SaaS"}

// Config holds all configuration options for a seoscan invocation.
// This struct is populated from defaults, the config file, and CLI flags,
// then passed through the application via dependency injection rather
// than global state.
type Config struct {
	// Targets is the list of target websites to research.
	// Must contain at least one non-empty entry for the research command.
	Targets []string

	// HTTPTimeout is the timeout for each outbound HTTP request.
	HTTPTimeout time.Duration

	// QuestionLimit is the number of hot posts fetched per subreddit.
	QuestionLimit int

	// Subreddits are the communities to collect questions from.
	Subreddits []string

	// MaxPages caps the number of website pages scraped per run.
	MaxPages int

	// ScrapeDelay is the politeness delay between page fetches.
	ScrapeDelay time.Duration

	// BatchSize is the number of concurrent research runs.
	BatchSize int

	// SkipCluster disables the clustering dispatch stage.
	SkipCluster bool

	// SkipScrape disables the website scraping stage.
	SkipScrape bool

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is the explicit path to the configuration file.
	// If empty, the tool searches for .seoscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// File holds settings loaded from the configuration file.
	File *File

	// JSONReport enables JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive
	// with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When empty the
	// report is written to stdout.
	ReportFile string

	// DBDir is the directory holding the local SQLite database with run
	// history and the trigger latch.
	DBDir string

	// SaveToDB indicates whether to persist run reports.
	SaveToDB bool

	// WatchAddr is the listen address for the watch command's trigger
	// server.
	WatchAddr string

	// Credentials holds the API credentials read from the environment.
	Credentials Credentials
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero (timeouts, limits, subreddit list).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		HTTPTimeout:   DefaultHTTPTimeout,
		QuestionLimit: DefaultQuestionLimit,
		Subreddits:    append([]string(nil), DefaultSubreddits...),
		MaxPages:      DefaultMaxPages,
		ScrapeDelay:   DefaultScrapeDelay,
		BatchSize:     DefaultBatchSize,
		WatchAddr:     ":8466",
		File:          &File{Sites: map[string]SiteConfig{}},
	}
}

// XDGDataDir returns the XDG data directory for seoscan.
// On Linux: ~/.local/share/seoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seoscan.
// On Linux: ~/.config/seoscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid for a research run.
// It returns a specific sentinel error describing the first problem found;
// fixing one error often makes later ones irrelevant.
//
// Validation happens once after CLI parsing, before any network call.
// In particular, an empty or whitespace-only target aborts here.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.HTTPTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.QuestionLimit <= 0 {
		return ErrInvalidQuestionLimit
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.ScrapeDelay < 0 {
		return ErrInvalidScrapeDelay
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
