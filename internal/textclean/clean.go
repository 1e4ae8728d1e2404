package textclean

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// caseFolder folds case for deduplication keys. Fold is preferred over
// ToLower because it handles language-independent case mappings
// (e.g. ß vs ss) that a plain lowercase conversion misses.
var caseFolder = cases.Fold()

// Normalize returns the canonical form of a question string: Unicode NFKC
// normalization, interior whitespace collapsed to single spaces, and
// surrounding whitespace trimmed.
//
// NFKC is used so that compatibility variants (full-width characters,
// ligatures) collected from forum posts compare equal to their plain
// ASCII forms.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// dedupeKey returns the case-folded normalization of s used to detect
// duplicates. Two questions that differ only in case or whitespace
// produce the same key.
func dedupeKey(s string) string {
	return caseFolder.String(Normalize(s))
}

// Questions cleans a sequence of raw question strings: each entry is
// normalized, empty entries are dropped, and exact duplicates (compared
// case-insensitively after normalization) are removed while preserving
// first-seen order.
//
// The returned slice is always a new allocation; the input is never
// modified. For any input, len(result) <= len(input).
func Questions(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	cleaned := make([]string, 0, len(raw))

	for _, s := range raw {
		normalized := Normalize(s)
		if normalized == "" {
			continue
		}

		key := caseFolder.String(normalized)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, normalized)
	}

	return cleaned
}
