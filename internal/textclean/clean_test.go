package textclean

import (
	"reflect"
	"testing"
)

// TestNormalize tests whitespace and Unicode normalization.
func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses interior whitespace",
			input: "How  do I\tfix   X?",
			want:  "How do I fix X?",
		},
		{
			name:  "trims surrounding whitespace",
			input: "  Best tool for Y \n",
			want:  "Best tool for Y",
		},
		{
			name:  "full-width characters fold to ASCII",
			input: "Ｈｏｗ ｄｏ Ｉ？",
			want:  "How do I?",
		},
		{
			name:  "whitespace-only becomes empty",
			input: " \t\n ",
			want:  "",
		},
		{
			name:  "empty stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestQuestions tests cleaning and deduplication of question lists.
func TestQuestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "case-insensitive duplicates are removed, first-seen order kept",
			input: []string{"How do I fix X?", "how do i fix x?", "Best tool for Y"},
			want:  []string{"How do I fix X?", "Best tool for Y"},
		},
		{
			name:  "whitespace variants are duplicates",
			input: []string{"Best tool for Y", "Best  tool for\tY "},
			want:  []string{"Best tool for Y"},
		},
		{
			name:  "empty and whitespace-only entries are dropped",
			input: []string{"", "  ", "What about Z?"},
			want:  []string{"What about Z?"},
		},
		{
			name:  "empty input yields empty output",
			input: []string{},
			want:  []string{},
		},
		{
			name:  "unique entries pass through unchanged",
			input: []string{"First question?", "Second question?", "Third question?"},
			want:  []string{"First question?", "Second question?", "Third question?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Questions(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if len(got) > len(tt.input) {
				t.Errorf("output longer than input: %d > %d", len(got), len(tt.input))
			}
		})
	}
}

// TestQuestionsDoesNotMutateInput verifies the cleaner is a pure function.
func TestQuestionsDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := []string{"  How do I fix X? ", "how do i fix x?"}
	original := make([]string, len(input))
	copy(original, input)

	_ = Questions(input)

	if !reflect.DeepEqual(input, original) {
		t.Errorf("input was mutated: %v", input)
	}
}
