package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/audiencelab/seoscan/internal/config"
)

// FallbackProfile is the structured profile used when the analysis call
// fails. It keeps the exact output format so downstream consumers (the
// spreadsheet tabs) always receive the shape they expect.
const FallbackProfile = `**Industry & Niche:** Unknown
**Main Products/Services:** Unknown
**Target Audience:** Unknown
**Audience Segments:** Unknown
**Top 3 Competitors:** Unknown
**Key Themes from Website:** Unknown`

// analysisPromptFormat asks for a structured business profile. The exact
// output format is pinned so the spreadsheet rows can be filled without
// free-form parsing.
const analysisPromptFormat = `You are a business analyst. Analyze the following website content and audience questions, and provide a structured business profile:

**Website Content:**
%s

**Audience Questions:**
%s

**Output Format (Return EXACTLY this structure):**
**Industry & Niche:** [Industry summary]
**Main Products/Services:** [List of main products/services]
**Target Audience:** [Description of the target audience]
**Audience Segments:** [List of audience segments]
**Top 3 Competitors:** [Competitor names]
**Key Themes from Website:** [Major themes extracted from content]`

// subredditPromptFormat asks for exactly three subreddit names, one per
// line, so the response can be parsed by prefix.
const subredditPromptFormat = `Given the following business profile:

%s

Identify the **3 most relevant subreddits** where the target audience actively discusses related topics.

**Return the exact format below (one subreddit per line, no numbering or explanations):**
r/[Subreddit1]
r/[Subreddit2]
r/[Subreddit3]`

// Client sends completion requests to an OpenAI-compatible API.
type Client struct {
	// http is the resty client used for completion requests.
	http *resty.Client

	// baseURL is the API host.
	baseURL string

	// apiKey authenticates requests.
	apiKey string

	// model is the completion model name.
	model string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host. Used by tests and compatible gateways.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
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

// NewClient creates a completion client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	http := resty.New()
	http.SetTimeout(config.DefaultHTTPTimeout)
	http.SetHeader("User-Agent", config.DefaultUserAgent)

	c := &Client{
		http:    http,
		baseURL: config.DefaultLLMBaseURL,
		apiKey:  apiKey,
		model:   config.DefaultLLMModel,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// chatMessage is a single message in a completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the completion request body.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// chatResponse is the completion response body. Only the fields the
// pipeline uses are declared.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// complete sends one completion request and returns the first choice's
// trimmed content.
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post(c.baseURL + "/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if resp.IsError() {
		if out.Error != nil {
			return "", fmt.Errorf("completion API error: %s", out.Error.Message)
		}
		return "", fmt.Errorf("completion API returned %s", resp.Status())
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	c.logger.Debug("completion received", "model", c.model, "length", len(content))
	return content, nil
}

// AnalyzeProfile builds a structured business profile from scraped site
// text and cleaned audience questions. The raw response text is returned
// unparsed; structure is enforced by the prompt, not validated here.
func (c *Client) AnalyzeProfile(ctx context.Context, siteText string, questions []string) (string, error) {
	questionBlock := "(none collected)"
	if len(questions) > 0 {
		questionBlock = "- " + strings.Join(questions, "\n- ")
	}
	if siteText == "" {
		siteText = "(no website text collected)"
	}

	prompt := fmt.Sprintf(analysisPromptFormat, siteText, questionBlock)
	return c.complete(ctx, prompt, config.DefaultAnalysisMaxTokens)
}

// SuggestSubreddits asks for the three most relevant subreddits for a
// business profile. Lines not starting with "r/" are discarded, so a
// chatty response degrades to fewer suggestions rather than garbage.
func (c *Client) SuggestSubreddits(ctx context.Context, profile string) ([]string, error) {
	raw, err := c.complete(ctx, fmt.Sprintf(subredditPromptFormat, profile), config.DefaultSubredditMaxTokens)
	if err != nil {
		return nil, err
	}

	var subreddits []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "r/") {
			subreddits = append(subreddits, line)
		}
	}

	c.logger.Debug("subreddits suggested", "count", len(subreddits))
	return subreddits, nil
}
