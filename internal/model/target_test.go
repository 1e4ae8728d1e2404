package model

import (
	"errors"
	"testing"
)

// TestNormalizeTarget tests target website validation and normalization.
func TestNormalizeTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		wantFull    string
		wantDisplay string
		wantErr     error
	}{
		{
			name:        "bare domain gets https scheme",
			input:       "example.com",
			wantFull:    "https://example.com",
			wantDisplay: "example.com",
		},
		{
			name:        "https URL is kept as-is",
			input:       "https://example.com",
			wantFull:    "https://example.com",
			wantDisplay: "example.com",
		},
		{
			name:        "http URL keeps its scheme",
			input:       "http://example.com",
			wantFull:    "http://example.com",
			wantDisplay: "example.com",
		},
		{
			name:        "surrounding whitespace is trimmed",
			input:       "  example.com \n",
			wantFull:    "https://example.com",
			wantDisplay: "example.com",
		},
		{
			name:        "trailing slash is stripped from display name",
			input:       "https://example.com/",
			wantFull:    "https://example.com/",
			wantDisplay: "example.com",
		},
		{
			name:    "empty input is rejected",
			input:   "",
			wantErr: ErrEmptyTarget,
		},
		{
			name:    "whitespace-only input is rejected",
			input:   "   \t ",
			wantErr: ErrEmptyTarget,
		},
		{
			name:    "scheme-only input is rejected",
			input:   "https://",
			wantErr: ErrEmptyTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			full, display, err := NormalizeTarget(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if full != tt.wantFull {
				t.Errorf("full: got %q, want %q", full, tt.wantFull)
			}
			if display != tt.wantDisplay {
				t.Errorf("display: got %q, want %q", display, tt.wantDisplay)
			}
		})
	}
}
