package forum

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServers starts fake Reddit OAuth and API servers.
// The API server serves the given posts for any subreddit listing request.
func newTestServers(t *testing.T, titles []string) (authURL, apiURL string, authCalls *int) {
	t.Helper()

	calls := 0
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost {
			t.Errorf("auth: expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("auth: parse form: %v", err)
		}
		if got := r.PostFormValue("grant_type"); got != "password" {
			t.Errorf("auth: grant_type: got %q", got)
		}
		if user, _, ok := r.BasicAuth(); !ok || user != "test-id" {
			t.Errorf("auth: missing or wrong basic auth")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(auth.Close)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("api: authorization: got %q", got)
		}
		children := make([]map[string]any, 0, len(titles))
		for i, title := range titles {
			children = append(children, map[string]any{
				"data": map[string]any{
					"id":        string(rune('a' + i)),
					"title":     title,
					"permalink": "/r/test/comments/abc/post/",
					"subreddit": "test",
					"score":     i + 1,
				},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"children": children},
		})
	}))
	t.Cleanup(api.Close)

	return auth.URL, api.URL, &calls
}

func testCredentials() Credentials {
	return Credentials{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		Username:     "test-user",
		Password:     "test-pass",
	}
}

// TestClientFetchQuestions tests question collection and filtering.
func TestClientFetchQuestions(t *testing.T) {
	t.Parallel()

	t.Run("keeps only titles ending in a question mark", func(t *testing.T) {
		t.Parallel()

		authURL, apiURL, _ := newTestServers(t, []string{
			"How do I fix X?",
			"Announcement: new release",
			"Best tool for Y?",
			"Trailing whitespace question? ",
		})

		c := NewClient(testCredentials(),
			WithAuthURL(authURL),
			WithAPIBaseURL(apiURL),
		)

		questions, err := c.FetchQuestions(context.Background(), []string{"marketing"}, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(questions) != 3 {
			t.Fatalf("expected 3 questions, got %d: %+v", len(questions), questions)
		}
		if questions[0].Text != "How do I fix X?" {
			t.Errorf("first question: got %q", questions[0].Text)
		}
		if !strings.HasPrefix(questions[0].URL, "https://www.reddit.com/r/test/") {
			t.Errorf("permalink not expanded: %q", questions[0].URL)
		}
		if questions[0].FetchedAt.IsZero() {
			t.Error("expected FetchedAt to be set")
		}
	})

	t.Run("token is reused across subreddits", func(t *testing.T) {
		t.Parallel()

		authURL, apiURL, authCalls := newTestServers(t, []string{"Q?"})

		c := NewClient(testCredentials(),
			WithAuthURL(authURL),
			WithAPIBaseURL(apiURL),
		)

		_, err := c.FetchQuestions(context.Background(), []string{"a", "b", "c"}, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *authCalls != 1 {
			t.Errorf("expected 1 auth call, got %d", *authCalls)
		}
	})

	t.Run("auth failure surfaces to caller", func(t *testing.T) {
		t.Parallel()

		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		t.Cleanup(auth.Close)

		c := NewClient(testCredentials(), WithAuthURL(auth.URL))

		_, err := c.FetchQuestions(context.Background(), []string{"marketing"}, 10)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "reddit auth failed") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("listing failure surfaces to caller", func(t *testing.T) {
		t.Parallel()

		authURL, _, _ := newTestServers(t, nil)
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
		t.Cleanup(api.Close)

		c := NewClient(testCredentials(),
			WithAuthURL(authURL),
			WithAPIBaseURL(api.URL),
		)

		_, err := c.FetchQuestions(context.Background(), []string{"marketing"}, 10)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "fetch r/marketing") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
