package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/audiencelab/seoscan/internal/config"
)

// Fixed trigger cells on the watched sheet.
const (
	// CellTrigger is the input cell watched for new target websites.
	CellTrigger = "B1"

	// CellStatus receives the short status message for the last trigger.
	CellStatus = "C1"

	// RangeResponse receives the response label and body (D1/E1).
	RangeResponse = "D1:E1"

	// RangeError receives the error label and body (D2/E2).
	RangeError = "D2:E2"
)

// DefaultQuotaBackoff is how long to wait before the single retry after a
// 429 quota response. The source system waited 30 seconds.
const DefaultQuotaBackoff = 30 * time.Second

// ValueRange is one contiguous cell range and its values, as understood
// by the spreadsheet values API.
type ValueRange struct {
	// Range is the A1-notation range, e.g. "Trigger!C1".
	Range string `json:"range"`

	// Values holds rows of cell values for the range.
	Values [][]string `json:"values"`
}

// batchUpdateRequest is the values:batchUpdate request body.
type batchUpdateRequest struct {
	ValueInputOption string       `json:"valueInputOption"`
	Data             []ValueRange `json:"data"`
}

// addSheetRequest is the spreadsheets:batchUpdate request body used to
// create a new tab.
type addSheetRequest struct {
	Requests []sheetRequest `json:"requests"`
}

type sheetRequest struct {
	AddSheet addSheet `json:"addSheet"`
}

type addSheet struct {
	Properties sheetProperties `json:"properties"`
}

type sheetProperties struct {
	Title string `json:"title"`
}

// Client writes values into one configured spreadsheet.
type Client struct {
	// http is the resty client used for API requests.
	http *resty.Client

	// baseURL is the spreadsheet API host.
	baseURL string

	// spreadsheetID identifies the target spreadsheet.
	spreadsheetID string

	// sheetName is the tab holding the trigger cells. When empty, ranges
	// are sent without a sheet prefix and land on the first sheet.
	sheetName string

	// token is the OAuth access token, sent as a bearer token.
	token string

	// quotaBackoff is the wait before the single 429 retry.
	quotaBackoff time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host. Used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithSheetName sets the tab holding the trigger cells.
func WithSheetName(name string) Option {
	return func(c *Client) {
		c.sheetName = name
	}
}

// WithQuotaBackoff overrides the 429 retry backoff. Used by tests.
func WithQuotaBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.quotaBackoff = d
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

// NewClient creates a spreadsheet client for one spreadsheet.
func NewClient(spreadsheetID, token string, opts ...Option) *Client {
	httpClient := resty.New()
	httpClient.SetTimeout(config.DefaultHTTPTimeout)
	httpClient.SetHeader("User-Agent", config.DefaultUserAgent)

	c := &Client{
		http:          httpClient,
		baseURL:       config.DefaultSheetsBaseURL,
		spreadsheetID: spreadsheetID,
		token:         token,
		quotaBackoff:  DefaultQuotaBackoff,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// qualify prefixes a range with the configured sheet name.
func (c *Client) qualify(r string) string {
	if c.sheetName == "" {
		return r
	}
	return c.sheetName + "!" + r
}

// SetStatus writes the status message into the status cell (C1).
func (c *Client) SetStatus(ctx context.Context, status string) error {
	return c.batchUpdate(ctx, []ValueRange{
		{Range: c.qualify(CellStatus), Values: [][]string{{status}}},
	})
}

// SetResponse writes a response label and raw body into D1/E1.
func (c *Client) SetResponse(ctx context.Context, label, body string) error {
	return c.batchUpdate(ctx, []ValueRange{
		{Range: c.qualify(RangeResponse), Values: [][]string{{label, body}}},
	})
}

// SetError writes an error label and raw error text into D2/E2.
func (c *Client) SetError(ctx context.Context, label, body string) error {
	return c.batchUpdate(ctx, []ValueRange{
		{Range: c.qualify(RangeError), Values: [][]string{{label, body}}},
	})
}

// AddIndustryTab creates the "Industry Analysis" tab and fills it with
// the business profile. The whole tab is written in one batch request.
func (c *Client) AddIndustryTab(ctx context.Context, targetWebsite, profile string) error {
	const title = "Industry Analysis"
	if err := c.addSheet(ctx, title); err != nil {
		return err
	}

	rows := []ValueRange{
		{Range: title + "!A1:B1", Values: [][]string{{"Category", "Details"}}},
		{Range: title + "!A2:B2", Values: [][]string{{"Target Website", targetWebsite}}},
		{Range: title + "!A3:B3", Values: [][]string{{"Business Profile", profile}}},
	}
	if err := c.batchUpdate(ctx, rows); err != nil {
		return fmt.Errorf("write industry tab: %w", err)
	}

	c.logger.Info("industry analysis tab written", "target", targetWebsite)
	return nil
}

// AddSubredditTab creates the "Relevant Subreddits" tab with the
// suggested communities, one per row.
func (c *Client) AddSubredditTab(ctx context.Context, subreddits []string) error {
	const title = "Relevant Subreddits"
	if err := c.addSheet(ctx, title); err != nil {
		return err
	}

	values := [][]string{{"Top 3 Subreddits"}}
	for _, sub := range subreddits {
		values = append(values, []string{sub})
	}

	err := c.batchUpdate(ctx, []ValueRange{
		{Range: fmt.Sprintf("%s!A1:A%d", title, len(values)), Values: values},
	})
	if err != nil {
		return fmt.Errorf("write subreddit tab: %w", err)
	}

	c.logger.Info("subreddit tab written", "subreddits", len(subreddits))
	return nil
}

// addSheet creates a new tab with the given title.
func (c *Client) addSheet(ctx context.Context, title string) error {
	req := addSheetRequest{
		Requests: []sheetRequest{
			{AddSheet: addSheet{Properties: sheetProperties{Title: title}}},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetBody(req).
		Post(fmt.Sprintf("%s/v4/spreadsheets/%s:batchUpdate", c.baseURL, c.spreadsheetID))
	if err != nil {
		return fmt.Errorf("add sheet %q: %w", title, err)
	}
	if resp.IsError() {
		return fmt.Errorf("add sheet %q: %s: %s", title, resp.Status(), resp.String())
	}
	return nil
}

// batchUpdate writes all value ranges in a single request.
// A 429 quota response is retried once after quotaBackoff; every other
// failure is returned immediately.
func (c *Client) batchUpdate(ctx context.Context, data []ValueRange) error {
	body := batchUpdateRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	url := fmt.Sprintf("%s/v4/spreadsheets/%s/values:batchUpdate", c.baseURL, c.spreadsheetID)

	send := func() (*resty.Response, error) {
		return c.http.R().
			SetContext(ctx).
			SetAuthToken(c.token).
			SetBody(body).
			Post(url)
	}

	resp, err := send()
	if err != nil {
		return fmt.Errorf("spreadsheet write failed: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		c.logger.Warn("spreadsheet quota exceeded, retrying once",
			"backoff", c.quotaBackoff,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.quotaBackoff):
		}

		resp, err = send()
		if err != nil {
			return fmt.Errorf("spreadsheet write failed: %w", err)
		}
	}

	if resp.IsError() {
		return fmt.Errorf("spreadsheet write failed: %s: %s", resp.Status(), resp.String())
	}
	return nil
}
