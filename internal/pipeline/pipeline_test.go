package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/audiencelab/seoscan/internal/model"
)

// stubStep is a minimal Step for pipeline mechanics tests.
type stubStep struct {
	name string
	err  error
	runs *[]string
}

func (s *stubStep) Name() string { return s.name }

func (s *stubStep) Do(_ context.Context, _ *model.ResearchReport) error {
	if s.runs != nil {
		*s.runs = append(*s.runs, s.name)
	}
	return s.err
}

// TestPipelineExecute tests ordered step execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var runs []string
		p := New()
		p.AddSteps(
			&stubStep{name: "first", runs: &runs},
			&stubStep{name: "second", runs: &runs},
			&stubStep{name: "third", runs: &runs},
		)

		report := model.NewResearchReport("example.com")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"first", "second", "third"}
		if len(runs) != len(want) {
			t.Fatalf("runs: got %v", runs)
		}
		for i, name := range want {
			if runs[i] != name {
				t.Errorf("run[%d]: want %s, got %s", i, name, runs[i])
			}
			if report.PerformedSteps[i] != name {
				t.Errorf("performed[%d]: want %s, got %s", i, name, report.PerformedSteps[i])
			}
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		var runs []string
		stepErr := errors.New("boom")
		p := New()
		p.AddSteps(
			&stubStep{name: "first", runs: &runs, err: stepErr},
			&stubStep{name: "second", runs: &runs},
		)

		report := model.NewResearchReport("example.com")
		err := p.Execute(context.Background(), report)
		if !errors.Is(err, stepErr) {
			t.Fatalf("expected step error, got %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected only the failing step to run, got %v", runs)
		}
		if report.ErrorMessage != "boom" {
			t.Errorf("error message: got %q", report.ErrorMessage)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		var runs []string
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&stubStep{name: "first", runs: &runs, err: errors.New("boom")},
			&stubStep{name: "second", runs: &runs},
		)

		report := model.NewResearchReport("example.com")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected both steps to run, got %v", runs)
		}
	})

	t.Run("respects cancellation between steps", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var runs []string
		p := New()
		p.AddStep(&stubStep{name: "first", runs: &runs})

		report := model.NewResearchReport("example.com")
		err := p.Execute(ctx, report)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected no steps to run, got %v", runs)
		}
	})
}

// TestPipelineStepNames tests step introspection.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&stubStep{name: "a"}, &stubStep{name: "b"})

	if p.StepCount() != 2 {
		t.Errorf("step count: got %d", p.StepCount())
	}
	names := p.StepNames()
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("step names: got %v", names)
	}
}
