package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/audiencelab/seoscan/internal/config"
)

// Payload is the request body sent to the clustering service.
// The shape mirrors the repository-dispatch trigger payload used by the
// rest of the system so the service can correlate jobs by target website.
type Payload struct {
	// EventType labels the kind of job being dispatched.
	EventType string `json:"event_type"`

	// ClientPayload carries the job parameters.
	ClientPayload ClientPayload `json:"client_payload"`
}

// ClientPayload carries the clustering job parameters.
type ClientPayload struct {
	// TargetWebsite is the correlation key for this run.
	TargetWebsite string `json:"target_website"`

	// Questions is the cleaned question text to cluster.
	Questions []string `json:"questions,omitempty"`
}

// Client sends clustering jobs to the configured service endpoint.
type Client struct {
	// http is the resty client used for the dispatch request.
	http *resty.Client

	// endpoint is the clustering service URL.
	endpoint string

	// eventType is sent as the payload's event_type field.
	eventType string

	// apiKey authenticates the request, sent as a bearer token.
	apiKey string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEventType overrides the payload event type.
func WithEventType(eventType string) Option {
	return func(c *Client) {
		if eventType != "" {
			c.eventType = eventType
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

// NewClient creates a clustering client for the given endpoint.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	http := resty.New()
	http.SetTimeout(config.DefaultHTTPTimeout)
	http.SetHeader("User-Agent", config.DefaultUserAgent)

	c := &Client{
		http:      http,
		endpoint:  endpoint,
		eventType: config.DefaultDispatchEventType,
		apiKey:    apiKey,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Dispatch sends one clustering job and returns the raw response body.
// The response is informational only; callers log and store it but must
// not parse it. A non-2xx status is an error so the caller can record the
// failure, but by contract the pipeline continues either way.
func (c *Client) Dispatch(ctx context.Context, targetWebsite string, questions []string) (string, error) {
	payload := Payload{
		EventType: c.eventType,
		ClientPayload: ClientPayload{
			TargetWebsite: targetWebsite,
			Questions:     questions,
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(payload).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("clustering dispatch failed: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		return body, fmt.Errorf("clustering service returned %s", resp.Status())
	}

	c.logger.Info("clustering job dispatched",
		"target", targetWebsite,
		"questions", len(questions),
		"status", resp.StatusCode(),
	)
	c.logger.Debug("clustering response", "body", body)

	return body, nil
}
