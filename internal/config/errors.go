package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Credentials methods
// and provide specific information about what is wrong.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each call site. This allows callers to
// use errors.Is() for programmatic handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no target website is specified.
	ErrNoTarget = errors.New("no target website specified: provide a website as a positional argument")

	// ErrInvalidTimeout is returned when the HTTP timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidQuestionLimit is returned when the per-subreddit question
	// limit is not positive.
	ErrInvalidQuestionLimit = errors.New("invalid question limit: must be positive")

	// ErrInvalidMaxPages is returned when the scrape page cap is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidScrapeDelay is returned when the scrape delay is negative.
	// Use 0 for no delay between page fetches.
	ErrInvalidScrapeDelay = errors.New("invalid scrape delay: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrMissingRedditCredentials is returned when any of the four Reddit
	// OAuth values (client id, client secret, username, password) is unset.
	ErrMissingRedditCredentials = errors.New("missing Reddit credentials: set REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME and REDDIT_PASSWORD")

	// ErrMissingLLMKey is returned when the language-model API key is unset.
	ErrMissingLLMKey = errors.New("missing language-model API key: set OPENAI_API_KEY")

	// ErrMissingSheetsToken is returned when the spreadsheet access token
	// is unset but a spreadsheet write was requested.
	ErrMissingSheetsToken = errors.New("missing spreadsheet token: set SHEETS_ACCESS_TOKEN")

	// ErrMissingDispatchToken is returned when the remote-dispatch bearer
	// token is unset but a dispatch was requested.
	ErrMissingDispatchToken = errors.New("missing dispatch token: set DISPATCH_TOKEN")

	// ErrMissingDispatchURL is returned when no remote-dispatch endpoint
	// is configured in the config file.
	ErrMissingDispatchURL = errors.New("missing dispatch URL: set dispatch.url in the config file")

	// ErrMissingSpreadsheetID is returned when a spreadsheet write is
	// requested but no spreadsheet id is configured.
	ErrMissingSpreadsheetID = errors.New("missing spreadsheet id: set spreadsheetId in the config file")
)
