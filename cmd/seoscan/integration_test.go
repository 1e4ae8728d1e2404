package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/audiencelab/seoscan/internal/config"
	"github.com/audiencelab/seoscan/internal/database"
)

// fakeExternalAPIs bundles the simulated Reddit, LLM, clustering, and
// spreadsheet services a full research run talks to.
type fakeExternalAPIs struct {
	redditAuth *httptest.Server
	redditAPI  *httptest.Server
	llm        *httptest.Server
	sheets     *httptest.Server
	cluster    *httptest.Server

	llmCalls     atomic.Int32
	sheetsCalls  atomic.Int32
	clusterCalls atomic.Int32
}

// startFakeExternalAPIs starts simulated servers for every external
// dependency of the pipeline. The Reddit listing returns three question
// posts, two of which differ only in case, plus one non-question post.
func startFakeExternalAPIs(t *testing.T) *fakeExternalAPIs {
	t.Helper()

	f := &fakeExternalAPIs{}

	f.redditAuth = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"bearer","expires_in":3600}`)
	}))
	t.Cleanup(f.redditAuth.Close)

	f.redditAPI = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"children":[
			{"data":{"id":"p1","title":"How do I fix slow page loads?","permalink":"/r/testsub/p1","subreddit":"testsub","score":42}},
			{"data":{"id":"p2","title":"how do i fix SLOW page loads?","permalink":"/r/testsub/p2","subreddit":"testsub","score":7}},
			{"data":{"id":"p3","title":"Best tool for keyword research?","permalink":"/r/testsub/p3","subreddit":"testsub","score":11}},
			{"data":{"id":"p4","title":"Announcing our new release","permalink":"/r/testsub/p4","subreddit":"testsub","score":3}}
		]}}`)
	}))
	t.Cleanup(f.redditAPI.Close)

	f.llm = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")

		f.llmCalls.Add(1)
		var content string
		if strings.Contains(string(body), "subreddit") {
			content = "r/webdev\\nr/SEO\\nr/marketing"
		} else {
			content = "**Industry/Niche:** Web performance tooling"
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":"%s"}}]}`, content)
	}))
	t.Cleanup(f.llm.Close)

	f.sheets = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f.sheetsCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	t.Cleanup(f.sheets.Close)

	f.cluster = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.clusterCalls.Add(1)
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(f.cluster.Close)

	return f
}

// TestResearchEndToEnd runs the full research pipeline against simulated
// external services and verifies the persisted report.
func TestResearchEndToEnd(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("REDDIT_USERNAME", "user")
	t.Setenv("REDDIT_PASSWORD", "pass")
	t.Setenv("OPENAI_API_KEY", "llm-key")
	t.Setenv("CLUSTER_API_KEY", "cluster-key")
	t.Setenv("SHEETS_ACCESS_TOKEN", "sheets-token")

	fakes := startFakeExternalAPIs(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbDir := t.TempDir()

	cfg := config.NewConfig()
	cfg.Targets = []string{"shop.example"}
	cfg.Subreddits = []string{"testsub"}
	cfg.SkipScrape = true // scraper covered by its own package tests
	cfg.SaveToDB = true
	cfg.DBDir = dbDir
	cfg.File.SpreadsheetID = "sheet-e2e"
	cfg.File.Cluster.URL = fakes.cluster.URL
	cfg.File.Endpoints = config.Endpoints{
		RedditAuthURL:    fakes.redditAuth.URL,
		RedditAPIBaseURL: fakes.redditAPI.URL,
		LLMBaseURL:       fakes.llm.URL,
		SheetsBaseURL:    fakes.sheets.URL,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	if err := runResearch(ctx, cfg, logger); err != nil {
		t.Fatalf("runResearch() error = %v", err)
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("failed to open database after run: %v", err)
	}
	defer db.Close()

	saved, err := db.GetLatestRun(ctx, "shop.example")
	if err != nil {
		t.Fatalf("failed to load saved run: %v", err)
	}

	t.Run("questions fetched and filtered", func(t *testing.T) {
		// Four posts in the listing; the non-question is filtered out.
		if len(saved.Questions) != 3 {
			t.Errorf("expected 3 raw questions, got %d", len(saved.Questions))
		}
	})

	t.Run("case-different duplicate removed", func(t *testing.T) {
		if len(saved.CleanedQuestions) != 2 {
			t.Fatalf("expected 2 cleaned questions, got %d: %v",
				len(saved.CleanedQuestions), saved.CleanedQuestions)
		}
		if saved.CleanedQuestions[0] != "How do I fix slow page loads?" {
			t.Errorf("expected first-seen form kept, got %q", saved.CleanedQuestions[0])
		}
		if saved.CleanedQuestions[1] != "Best tool for keyword research?" {
			t.Errorf("expected second question kept, got %q", saved.CleanedQuestions[1])
		}
	})

	t.Run("analysis produced profile and subreddits", func(t *testing.T) {
		if !strings.Contains(saved.IndustryProfile, "Web performance tooling") {
			t.Errorf("expected analyzed profile, got %q", saved.IndustryProfile)
		}
		if len(saved.Subreddits) != 3 {
			t.Errorf("expected 3 suggested subreddits, got %v", saved.Subreddits)
		}
		if fakes.llmCalls.Load() != 2 {
			t.Errorf("expected 2 completion calls, got %d", fakes.llmCalls.Load())
		}
	})

	t.Run("clustering dispatched once", func(t *testing.T) {
		if fakes.clusterCalls.Load() != 1 {
			t.Errorf("expected 1 clustering dispatch, got %d", fakes.clusterCalls.Load())
		}
	})

	t.Run("spreadsheet written with success status", func(t *testing.T) {
		if fakes.sheetsCalls.Load() == 0 {
			t.Error("expected spreadsheet writes")
		}
		if saved.SheetStatus != "✅ Research complete for: shop.example" {
			t.Errorf("unexpected sheet status %q", saved.SheetStatus)
		}
	})

	t.Run("target carried unchanged", func(t *testing.T) {
		if saved.TargetWebsite != "shop.example" {
			t.Errorf("expected target 'shop.example', got %q", saved.TargetWebsite)
		}
		if saved.RunID == "" {
			t.Error("expected non-empty run id")
		}
	})

	t.Run("no stage failed", func(t *testing.T) {
		for _, stage := range saved.StageResults {
			if !stage.OK {
				t.Errorf("stage %s failed: %s", stage.Stage, stage.Detail)
			}
		}
	})
}

// TestResearchEndToEndFetchFailure verifies that a failing question fetch
// halts the run before any downstream service is called.
func TestResearchEndToEndFetchFailure(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("REDDIT_USERNAME", "user")
	t.Setenv("REDDIT_PASSWORD", "pass")
	t.Setenv("OPENAI_API_KEY", "llm-key")
	t.Setenv("CLUSTER_API_KEY", "cluster-key")
	t.Setenv("SHEETS_ACCESS_TOKEN", "sheets-token")

	fakes := startFakeExternalAPIs(t)

	// Auth endpoint rejects every request
	failingAuth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_grant"}`)
	}))
	defer failingAuth.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbDir := t.TempDir()

	cfg := config.NewConfig()
	cfg.Targets = []string{"shop.example"}
	cfg.Subreddits = []string{"testsub"}
	cfg.SkipScrape = true
	cfg.SaveToDB = true
	cfg.DBDir = dbDir
	cfg.File.SpreadsheetID = "sheet-e2e"
	cfg.File.Cluster.URL = fakes.cluster.URL
	cfg.File.Endpoints = config.Endpoints{
		RedditAuthURL:    failingAuth.URL,
		RedditAPIBaseURL: fakes.redditAPI.URL,
		LLMBaseURL:       fakes.llm.URL,
		SheetsBaseURL:    fakes.sheets.URL,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Sequential mode records the failure on the report; the command
	// itself still exits cleanly so remaining targets can run.
	if err := runResearch(ctx, cfg, logger); err != nil {
		t.Fatalf("runResearch() error = %v", err)
	}

	if fakes.llmCalls.Load() != 0 {
		t.Errorf("expected no completion calls after fetch failure, got %d", fakes.llmCalls.Load())
	}
	if fakes.clusterCalls.Load() != 0 {
		t.Errorf("expected no clustering dispatch after fetch failure, got %d", fakes.clusterCalls.Load())
	}
	if fakes.sheetsCalls.Load() != 0 {
		t.Errorf("expected no spreadsheet writes after fetch failure, got %d", fakes.sheetsCalls.Load())
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("failed to open database after run: %v", err)
	}
	defer db.Close()

	saved, err := db.GetLatestRun(ctx, "shop.example")
	if err != nil {
		t.Fatalf("failed to load saved run: %v", err)
	}
	if saved.ErrorMessage == "" {
		t.Error("expected fatal error recorded on the report")
	}
	if len(saved.CleanedQuestions) != 0 {
		t.Errorf("expected no cleaned questions, got %v", saved.CleanedQuestions)
	}
}
