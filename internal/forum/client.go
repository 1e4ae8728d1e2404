package forum

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/audiencelab/seoscan/internal/config"
	"github.com/audiencelab/seoscan/internal/model"
)

// Credentials holds the four values of a Reddit script application.
type Credentials struct {
	// ClientID is the application client id.
	ClientID string

	// ClientSecret is the application client secret.
	ClientSecret string

	// Username is the Reddit account for the password grant.
	Username string

	// Password is the Reddit account password.
	Password string
}

// Client fetches questions from the Reddit API.
// It lazily obtains an OAuth token on first use and refreshes it when the
// previous one expires.
type Client struct {
	// http is the resty client used for all requests.
	http *resty.Client

	// authURL is the OAuth token endpoint.
	authURL string

	// apiBaseURL is the authenticated API host.
	apiBaseURL string

	// creds are the script-application credentials.
	creds Credentials

	// logger for structured logging.
	logger *slog.Logger

	// token is the current OAuth access token.
	token string

	// tokenExpiry is when the current token stops being valid.
	tokenExpiry time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithAuthURL overrides the OAuth token endpoint. Used by tests.
func WithAuthURL(url string) Option {
	return func(c *Client) {
		c.authURL = url
	}
}

// WithAPIBaseURL overrides the authenticated API host. Used by tests.
func WithAPIBaseURL(url string) Option {
	return func(c *Client) {
		c.apiBaseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Reddit client with the given credentials.
func NewClient(creds Credentials, opts ...Option) *Client {
	http := resty.New()
	http.SetTimeout(config.DefaultHTTPTimeout)
	http.SetHeader("User-Agent", config.DefaultUserAgent)

	c := &Client{
		http:       http,
		authURL:    config.DefaultRedditAuthURL,
		apiBaseURL: config.DefaultRedditAPIBaseURL,
		creds:      creds,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// tokenResponse is the OAuth token endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error,omitempty"`
}

// listing is the Reddit listing envelope for /r/<subreddit>/hot.
// Only the fields the pipeline uses are declared; everything else in the
// response is ignored at the boundary.
type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// post is a single Reddit post within a listing.
type post struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Permalink string  `json:"permalink"`
	Subreddit string  `json:"subreddit"`
	Score     int     `json:"score"`
	CreatedAt float64 `json:"created_utc"`
}

// authenticate obtains an OAuth access token with the password grant.
// The token is cached until shortly before expiry.
func (c *Client) authenticate(ctx context.Context) error {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	var tok tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": "password",
			"username":   c.creds.Username,
			"password":   c.creds.Password,
		}).
		SetResult(&tok).
		Post(c.authURL)
	if err != nil {
		return fmt.Errorf("reddit auth request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("reddit auth failed: %s: %s", resp.Status(), resp.String())
	}
	if tok.Error != "" {
		return fmt.Errorf("reddit auth rejected: %s", tok.Error)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("reddit auth returned no access token")
	}

	c.token = tok.AccessToken
	// Refresh one minute early so an in-flight request never carries a
	// token that expires mid-call.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)

	c.logger.Debug("reddit token obtained", "expires_in", tok.ExpiresIn)
	return nil
}

// FetchQuestions collects question posts from the given subreddits.
// For each subreddit it fetches one page of hot posts (best effort, no
// pagination) and keeps titles ending in "?". The first API failure is
// returned to the caller; there is no retry.
func (c *Client) FetchQuestions(ctx context.Context, subreddits []string, limit int) ([]model.Question, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	questions := make([]model.Question, 0, len(subreddits)*limit)
	for _, sub := range subreddits {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fetched, err := c.fetchSubreddit(ctx, sub, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch r/%s: %w", sub, err)
		}
		questions = append(questions, fetched...)

		c.logger.Debug("subreddit fetched",
			"subreddit", sub,
			"questions", len(fetched),
		)
	}

	return questions, nil
}

// fetchSubreddit fetches one page of hot posts from a single subreddit
// and filters it down to questions.
func (c *Client) fetchSubreddit(ctx context.Context, subreddit string, limit int) ([]model.Question, error) {
	var page listing
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&page).
		Get(fmt.Sprintf("%s/r/%s/hot", c.apiBaseURL, subreddit))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("listing request failed: %s", resp.Status())
	}

	now := time.Now()
	questions := make([]model.Question, 0, len(page.Data.Children))
	for _, child := range page.Data.Children {
		p := child.Data
		if !strings.HasSuffix(strings.TrimSpace(p.Title), "?") {
			continue
		}
		questions = append(questions, model.Question{
			Text:      p.Title,
			URL:       "https://www.reddit.com" + p.Permalink,
			PostID:    p.ID,
			Subreddit: p.Subreddit,
			Score:     p.Score,
			FetchedAt: now,
		})
	}

	return questions, nil
}
