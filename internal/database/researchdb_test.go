package database

import (
	"context"
	"errors"
	"testing"

	"github.com/audiencelab/seoscan/internal/model"
)

func openTestDB(t *testing.T) *ResearchDB {
	t.Helper()

	rdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := rdb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return rdb
}

// TestOpenWithoutCreate tests that opening a missing database fails when
// creation is disabled.
func TestOpenWithoutCreate(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
	if err == nil {
		t.Fatal("expected error for missing database")
	}
}

// TestSaveAndGetRunHistory tests round-tripping run reports.
func TestSaveAndGetRunHistory(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	first := model.NewResearchReport("example.com")
	first.AddQuestion(model.Question{Text: "How do I fix X?", Subreddit: "marketing"})
	first.RecordStage(model.StageFetch, nil)
	first.Finish()

	second := model.NewResearchReport("example.com")
	second.Finish()

	for _, r := range []*model.ResearchReport{first, second} {
		if err := rdb.SaveRunReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	history, err := rdb.GetRunHistory(ctx, "example.com")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(history))
	}
	if history[0].RunID != second.RunID {
		t.Errorf("expected most recent run first, got %s", history[0].RunID)
	}
	if len(history[1].Questions) != 1 || history[1].Questions[0].Text != "How do I fix X?" {
		t.Errorf("questions not preserved: %+v", history[1].Questions)
	}
	if !history[1].StageOK(model.StageFetch) {
		t.Error("stage results not preserved")
	}
}

// TestGetRunHistoryEmpty tests ErrNoRuns for unknown targets.
func TestGetRunHistoryEmpty(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)

	if _, err := rdb.GetRunHistory(context.Background(), "unknown.example"); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}
	if _, err := rdb.GetLatestRun(context.Background(), "unknown.example"); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}
}

// TestGetLatestRun tests that the newest report is returned.
func TestGetLatestRun(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	old := model.NewResearchReport("example.com")
	old.Finish()
	latest := model.NewResearchReport("example.com")
	latest.IndustryProfile = "**Industry & Niche:** Widgets"
	latest.Finish()

	for _, r := range []*model.ResearchReport{old, latest} {
		if err := rdb.SaveRunReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	got, err := rdb.GetLatestRun(ctx, "example.com")
	if err != nil {
		t.Fatalf("failed to get latest run: %v", err)
	}
	if got.RunID != latest.RunID {
		t.Errorf("expected run %s, got %s", latest.RunID, got.RunID)
	}
	if got.IndustryProfile != latest.IndustryProfile {
		t.Errorf("profile not preserved: %q", got.IndustryProfile)
	}
}

// TestListTargets tests that distinct targets are listed sorted.
func TestListTargets(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	for _, target := range []string{"b.example", "a.example", "b.example"} {
		r := model.NewResearchReport(target)
		r.Finish()
		if err := rdb.SaveRunReport(ctx, r); err != nil {
			t.Fatalf("failed to save report: %v", err)
		}
	}

	targets, err := rdb.ListTargets(ctx)
	if err != nil {
		t.Fatalf("failed to list targets: %v", err)
	}
	want := []string{"a.example", "b.example"}
	if len(targets) != len(want) {
		t.Fatalf("expected %v, got %v", want, targets)
	}
	for i, w := range want {
		if targets[i] != w {
			t.Errorf("target[%d]: want %s, got %s", i, w, targets[i])
		}
	}
}

// TestTriggerLatch tests the duplicate-suppression latch round trip.
func TestTriggerLatch(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	// A cell that never fired reads as empty, not as an error.
	got, err := rdb.LastTriggerValue(ctx, "B1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty latch, got %q", got)
	}

	if err := rdb.SetLastTriggerValue(ctx, "B1", "example.com"); err != nil {
		t.Fatalf("failed to set latch: %v", err)
	}
	got, err = rdb.LastTriggerValue(ctx, "B1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "example.com" {
		t.Errorf("latch: want example.com, got %q", got)
	}

	// Upsert replaces the previous value.
	if err := rdb.SetLastTriggerValue(ctx, "B1", "other.example"); err != nil {
		t.Fatalf("failed to update latch: %v", err)
	}
	got, err = rdb.LastTriggerValue(ctx, "B1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "other.example" {
		t.Errorf("latch after update: want other.example, got %q", got)
	}
}
