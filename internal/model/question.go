package model

import "time"

// Question represents a single forum question collected for a target website.
// A question has no identity beyond its text content; deduplication happens
// on the normalized text, not on the source post ID.
type Question struct {
	// Text is the raw question text as returned by the forum API.
	Text string `json:"text"`

	// URL is the permalink to the source post.
	URL string `json:"url,omitempty"`

	// PostID is the forum-side identifier of the source post.
	// Kept for debugging only; it plays no role in deduplication.
	PostID string `json:"post_id,omitempty"`

	// Subreddit is the community the question was collected from.
	Subreddit string `json:"subreddit,omitempty"`

	// Score is the forum score (upvotes) at fetch time.
	Score int `json:"score,omitempty"`

	// FetchedAt is when the question was collected.
	FetchedAt time.Time `json:"fetched_at"`
}

// ScrapedPage holds the visible text extracted from one page of the
// target website.
type ScrapedPage struct {
	// URL is the full URL of the scraped page.
	URL string `json:"url"`

	// Title is the page title, empty if none was found.
	Title string `json:"title,omitempty"`

	// Text is the concatenated paragraph text of the page.
	Text string `json:"text,omitempty"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// FetchedAt is when the page was fetched.
	FetchedAt time.Time `json:"fetched_at"`
}
