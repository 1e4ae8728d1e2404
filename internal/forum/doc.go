// Package forum collects discussion questions from the Reddit API.
//
// The client authenticates with the OAuth2 password grant (script-type
// application credentials) and fetches a single best-effort page of hot
// posts per subreddit, keeping only post titles that are questions.
// There is no pagination and no retry: an API failure is surfaced to the
// caller, which halts the pipeline because every later stage depends on
// the fetched questions.
package forum
