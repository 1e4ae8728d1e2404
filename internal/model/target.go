package model

import (
	"errors"
	"strings"
)

// ErrEmptyTarget is returned when the target website is empty or
// whitespace-only. The pipeline must abort before any network call.
var ErrEmptyTarget = errors.New("no target website provided")

// NormalizeTarget validates and normalizes a target website string.
// It returns the full URL used for requests (scheme guaranteed) and the
// display name used for spreadsheet titles and filenames (scheme stripped).
//
// The original system performed the same two transformations: strip
// "http(s)://" for the clean name, and prepend "https://" when the input
// carries no scheme.
func NormalizeTarget(raw string) (full, display string, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", ErrEmptyTarget
	}

	display = strings.TrimPrefix(trimmed, "https://")
	display = strings.TrimPrefix(display, "http://")
	display = strings.TrimSuffix(display, "/")
	if display == "" {
		return "", "", ErrEmptyTarget
	}

	full = trimmed
	if !strings.HasPrefix(full, "http://") && !strings.HasPrefix(full, "https://") {
		full = "https://" + full
	}
	return full, display, nil
}
