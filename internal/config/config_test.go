package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// valid returns a config that passes validation; tests mutate one
	// field at a time to isolate each rule.
	valid := func() *Config {
		c := NewConfig()
		c.Targets = []string{"example.com"}
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "default config with a target is valid",
			mutate: func(_ *Config) {},
		},
		{
			name:    "no targets",
			mutate:  func(c *Config) { c.Targets = nil },
			wantErr: ErrNoTarget,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.HTTPTimeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero question limit",
			mutate:  func(c *Config) { c.QuestionLimit = 0 },
			wantErr: ErrInvalidQuestionLimit,
		},
		{
			name:    "zero max pages",
			mutate:  func(c *Config) { c.MaxPages = 0 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "negative scrape delay",
			mutate:  func(c *Config) { c.ScrapeDelay = -1 },
			wantErr: ErrInvalidScrapeDelay,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestCredentialsRequire tests per-service credential checks.
func TestCredentialsRequire(t *testing.T) {
	t.Parallel()

	full := Credentials{
		RedditClientID:     "id",
		RedditClientSecret: "secret",
		RedditUsername:     "user",
		RedditPassword:     "pass",
		LLMAPIKey:          "sk-test",
		ClusterAPIKey:      "ck-test",
		SheetsAccessToken:  "ya29.test",
		DispatchToken:      "ghp-test",
	}

	if err := full.RequireReddit(); err != nil {
		t.Errorf("RequireReddit: unexpected error: %v", err)
	}
	if err := full.RequireLLM(); err != nil {
		t.Errorf("RequireLLM: unexpected error: %v", err)
	}
	if err := full.RequireSheets(); err != nil {
		t.Errorf("RequireSheets: unexpected error: %v", err)
	}
	if err := full.RequireDispatch(); err != nil {
		t.Errorf("RequireDispatch: unexpected error: %v", err)
	}

	t.Run("missing reddit password", func(t *testing.T) {
		t.Parallel()

		c := full
		c.RedditPassword = ""
		if !errors.Is(c.RequireReddit(), ErrMissingRedditCredentials) {
			t.Error("expected ErrMissingRedditCredentials")
		}
	})

	t.Run("missing llm key", func(t *testing.T) {
		t.Parallel()

		c := full
		c.LLMAPIKey = ""
		if !errors.Is(c.RequireLLM(), ErrMissingLLMKey) {
			t.Error("expected ErrMissingLLMKey")
		}
	})
}

// TestLoadCredentials tests reading credentials from the environment.
// Not parallel: it mutates process-wide environment variables.
func TestLoadCredentials(t *testing.T) {
	t.Setenv(EnvRedditClientID, "id")
	t.Setenv(EnvRedditClientSecret, "secret")
	t.Setenv(EnvLLMAPIKey, "sk-test")

	creds := LoadCredentials()

	if creds.RedditClientID != "id" {
		t.Errorf("RedditClientID: got %q", creds.RedditClientID)
	}
	if creds.RedditClientSecret != "secret" {
		t.Errorf("RedditClientSecret: got %q", creds.RedditClientSecret)
	}
	if creds.LLMAPIKey != "sk-test" {
		t.Errorf("LLMAPIKey: got %q", creds.LLMAPIKey)
	}
}

// TestLoadConfigFile tests YAML config file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a valid file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `
spreadsheetId: "1abcDEF"
sheetName: "Trigger"
dispatch:
  url: https://api.github.com/repos/acme/seo-runner/dispatches
  eventType: seo-research
cluster:
  url: https://cluster.example.com/v1/jobs
subreddits: [marketing, SaaS]
sites:
  example.com:
    questionLimit: 5
    subreddits: [Entrepreneur]
defaults:
  maxPages: 8
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if f.SpreadsheetID != "1abcDEF" {
			t.Errorf("spreadsheetId: got %q", f.SpreadsheetID)
		}
		if f.Dispatch.URL != "https://api.github.com/repos/acme/seo-runner/dispatches" {
			t.Errorf("dispatch url: got %q", f.Dispatch.URL)
		}
		if len(f.Subreddits) != 2 {
			t.Errorf("subreddits: got %v", f.Subreddits)
		}

		site := f.GetSiteConfig("example.com")
		if site.QuestionLimit != 5 {
			t.Errorf("site questionLimit: got %d", site.QuestionLimit)
		}
		if site.MaxPages != 8 {
			t.Errorf("site maxPages (from defaults): got %d", site.MaxPages)
		}
		if len(site.Subreddits) != 1 || site.Subreddits[0] != "Entrepreneur" {
			t.Errorf("site subreddits: got %v", site.Subreddits)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("unknown site falls back to defaults", func(t *testing.T) {
		t.Parallel()

		f := &File{
			Defaults: SiteConfig{MaxPages: 4},
			Sites:    map[string]SiteConfig{},
		}
		site := f.GetSiteConfig("unknown.example")
		if site.MaxPages != 4 {
			t.Errorf("expected defaults, got %+v", site)
		}
	})
}
