package main

import (
	"context"
	"testing"

	"github.com/audiencelab/seoscan/internal/database"
	"github.com/audiencelab/seoscan/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [target-website]" {
			t.Errorf("expected use 'history [target-website]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})

	t.Run("has latest flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("latest") == nil {
			t.Error("expected latest flag")
		}
	})
}

// TestListTargets tests target listing against a real database.
func TestListTargets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	t.Run("empty database", func(t *testing.T) {
		if err := listTargets(ctx, db, false); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("with recorded runs", func(t *testing.T) {
		r := model.NewResearchReport("list.example")
		r.Finish()
		if err := db.SaveRunReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}

		if err := listTargets(ctx, db, false); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := listTargets(ctx, db, true); err != nil {
			t.Errorf("unexpected error for JSON output: %v", err)
		}
	})
}

// TestShowRunHistory tests run history display.
func TestShowRunHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	t.Run("unknown target", func(t *testing.T) {
		if err := showRunHistory(ctx, db, "unknown.example", false); err == nil {
			t.Error("expected error for unknown target")
		}
	})

	t.Run("known target", func(t *testing.T) {
		r := model.NewResearchReport("history.example")
		r.RecordStage(model.StageFetch, nil)
		r.Finish()
		if err := db.SaveRunReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}

		if err := showRunHistory(ctx, db, "history.example", false); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := showRunHistory(ctx, db, "history.example", true); err != nil {
			t.Errorf("unexpected error for JSON output: %v", err)
		}
	})
}

// TestShowLatestRun tests latest-run display.
func TestShowLatestRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	t.Run("unknown target", func(t *testing.T) {
		if err := showLatestRun(ctx, db, "unknown.example", false); err == nil {
			t.Error("expected error for unknown target")
		}
	})

	t.Run("known target", func(t *testing.T) {
		r := model.NewResearchReport("latest.example")
		r.Finish()
		if err := db.SaveRunReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}

		if err := showLatestRun(ctx, db, "latest.example", true); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
