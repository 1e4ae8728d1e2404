package config

// DispatchConfig configures the remote-dispatch trigger endpoint.
type DispatchConfig struct {
	// URL is the repository-dispatch-style endpoint that starts a
	// pipeline run on the automation runner.
	URL string `yaml:"url,omitempty"`

	// EventType is the event_type field of the dispatch payload.
	// Defaults to DefaultDispatchEventType when empty.
	EventType string `yaml:"eventType,omitempty"`
}

// ClusterConfig configures the keyword-clustering service.
type ClusterConfig struct {
	// URL is the clustering service endpoint. When empty the clustering
	// stage is skipped entirely.
	URL string `yaml:"url,omitempty"`

	// EventType is the event_type field of the clustering payload.
	// Defaults to DefaultDispatchEventType when empty.
	EventType string `yaml:"eventType,omitempty"`
}

// Endpoints overrides the base URLs of the external APIs.
// Primarily useful for tests and self-hosted compatible services
// (e.g. an OpenAI-compatible gateway).
type Endpoints struct {
	// RedditAuthURL overrides the Reddit OAuth token endpoint.
	RedditAuthURL string `yaml:"redditAuth,omitempty"`

	// RedditAPIBaseURL overrides the authenticated Reddit API host.
	RedditAPIBaseURL string `yaml:"redditApi,omitempty"`

	// LLMBaseURL overrides the completion API host.
	LLMBaseURL string `yaml:"llm,omitempty"`

	// SheetsBaseURL overrides the spreadsheet API host.
	SheetsBaseURL string `yaml:"sheets,omitempty"`
}

// SiteConfig holds per-target overrides for a single target website.
type SiteConfig struct {
	// Subreddits overrides the global subreddit list for this site.
	Subreddits []string `yaml:"subreddits,omitempty"`

	// QuestionLimit overrides the per-subreddit question limit.
	// If zero, the global limit is used.
	QuestionLimit int `yaml:"questionLimit,omitempty"`

	// MaxPages overrides the scrape page cap for this site.
	// If zero, the global cap is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// SpreadsheetID overrides the global spreadsheet for this site.
	SpreadsheetID string `yaml:"spreadsheetId,omitempty"`
}

// File represents the structure of the .seoscan configuration file.
type File struct {
	// SpreadsheetID is the shared spreadsheet that receives results
	// and trigger status cells.
	SpreadsheetID string `yaml:"spreadsheetId,omitempty"`

	// SheetName is the tab holding the trigger cells (B1/C1/D/E rows).
	// Defaults to the spreadsheet's first sheet when empty.
	SheetName string `yaml:"sheetName,omitempty"`

	// Dispatch configures the remote-dispatch trigger endpoint.
	Dispatch DispatchConfig `yaml:"dispatch,omitempty"`

	// Cluster configures the keyword-clustering service.
	Cluster ClusterConfig `yaml:"cluster,omitempty"`

	// Endpoints overrides external API base URLs.
	Endpoints Endpoints `yaml:"endpoints,omitempty"`

	// Subreddits is the global subreddit list. Overrides the built-in
	// default; overridden in turn by per-site configuration.
	Subreddits []string `yaml:"subreddits,omitempty"`

	// Sites maps target website display names (scheme stripped, e.g.
	// "example.com") to their per-site overrides.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains site configuration applied to all sites unless
	// overridden per site.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a target website display
// name, merging per-site values over the file-level defaults.
func (f *File) GetSiteConfig(site string) SiteConfig {
	result := f.Defaults

	if siteConfig, ok := f.Sites[site]; ok {
		if len(siteConfig.Subreddits) > 0 {
			result.Subreddits = siteConfig.Subreddits
		}
		if siteConfig.QuestionLimit > 0 {
			result.QuestionLimit = siteConfig.QuestionLimit
		}
		if siteConfig.MaxPages > 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.SpreadsheetID != "" {
			result.SpreadsheetID = siteConfig.SpreadsheetID
		}
	}

	return result
}
