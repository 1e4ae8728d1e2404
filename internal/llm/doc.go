// Package llm wraps the language-model completion API used for analysis.
//
// Two completions are made per run: one that turns scraped website text
// and collected questions into a structured business profile, and one
// that suggests the three most relevant subreddits for that profile.
// Neither call is retried; failures surface to the caller, which falls
// back to a canned profile (matching the source system's behavior).
package llm
