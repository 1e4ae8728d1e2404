package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/audiencelab/seoscan/internal/config"
)

// Payload is the remote-dispatch request body.
type Payload struct {
	// EventType labels the kind of job being dispatched.
	EventType string `json:"event_type"`

	// ClientPayload carries the job parameters.
	ClientPayload ClientPayload `json:"client_payload"`
}

// ClientPayload carries the dispatch job parameters.
type ClientPayload struct {
	// TargetWebsite is the value from the watched cell.
	TargetWebsite string `json:"target_website"`
}

// Latch stores the last value seen per watched cell. Implemented by
// database.ResearchDB.
type Latch interface {
	// LastTriggerValue returns the last recorded value for a cell, or an
	// empty string when the cell has never fired.
	LastTriggerValue(ctx context.Context, cell string) (string, error)

	// SetLastTriggerValue records the last value seen for a cell.
	SetLastTriggerValue(ctx context.Context, cell, value string) error
}

// StatusWriter writes trigger outcomes back to the spreadsheet.
// Implemented by sheets.Client.
type StatusWriter interface {
	// SetStatus writes the short status message.
	SetStatus(ctx context.Context, status string) error

	// SetResponse writes a response label and raw body.
	SetResponse(ctx context.Context, label, body string) error

	// SetError writes an error label and raw error text.
	SetError(ctx context.Context, label, body string) error
}

// Result is the explicit outcome of one cell-edit event.
type Result struct {
	// Target is the value from the watched cell.
	Target string `json:"target"`

	// Suppressed is true when the latch swallowed a duplicate value and
	// no dispatch was sent.
	Suppressed bool `json:"suppressed"`

	// StatusCode is the dispatch response code (zero when no request
	// was sent).
	StatusCode int `json:"status_code,omitempty"`

	// Status is the message written to the spreadsheet status cell.
	Status string `json:"status,omitempty"`
}

// Dispatcher fires remote-dispatch requests for cell-edit events.
type Dispatcher struct {
	// http is the resty client used for the dispatch request.
	http *resty.Client

	// endpoint is the repository-dispatch-style URL.
	endpoint string

	// eventType is sent as the payload's event_type field.
	eventType string

	// token authenticates the request, sent as a bearer token.
	token string

	// latch suppresses duplicate values per cell.
	latch Latch

	// status receives outcome writes. May be nil when no spreadsheet is
	// configured; outcomes are then log-only.
	status StatusWriter

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithEventType overrides the payload event type.
func WithEventType(eventType string) Option {
	return func(d *Dispatcher) {
		if eventType != "" {
			d.eventType = eventType
		}
	}
}

// WithStatusWriter sets the spreadsheet status writer.
func WithStatusWriter(w StatusWriter) Option {
	return func(d *Dispatcher) {
		d.status = w
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.http.SetTimeout(timeout)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a Dispatcher for the given endpoint and latch.
func NewDispatcher(endpoint, token string, latch Latch, opts ...Option) *Dispatcher {
	httpClient := resty.New()
	httpClient.SetTimeout(config.DefaultHTTPTimeout)
	httpClient.SetHeader("User-Agent", config.DefaultUserAgent)

	d := &Dispatcher{
		http:      httpClient,
		endpoint:  endpoint,
		eventType: config.DefaultDispatchEventType,
		token:     token,
		latch:     latch,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// HandleEdit processes one cell-edit event. Empty values and values
// identical to the last dispatched one for the cell are suppressed; a
// distinct value fires exactly one dispatch request, and the outcome is
// written to the spreadsheet status cells.
//
// The latch is advanced as soon as the transition fires, before the
// request outcome is known, so a failed dispatch is not silently
// re-sent on the next identical edit.
func (d *Dispatcher) HandleEdit(ctx context.Context, cell, value string) (*Result, error) {
	target := strings.TrimSpace(value)
	result := &Result{Target: target}

	if target == "" {
		result.Suppressed = true
		return result, nil
	}

	last, err := d.latch.LastTriggerValue(ctx, cell)
	if err != nil {
		return nil, fmt.Errorf("read trigger latch: %w", err)
	}
	if last == target {
		d.logger.Info("duplicate trigger suppressed", "cell", cell, "target", target)
		result.Suppressed = true
		return result, nil
	}

	if err := d.latch.SetLastTriggerValue(ctx, cell, target); err != nil {
		return nil, fmt.Errorf("advance trigger latch: %w", err)
	}

	d.dispatch(ctx, target, result)
	return result, nil
}

// dispatch sends the remote-dispatch request and records the outcome on
// the result and the spreadsheet. Request failures are terminal for the
// event, not for the caller.
func (d *Dispatcher) dispatch(ctx context.Context, target string, result *Result) {
	payload := Payload{
		EventType:     d.eventType,
		ClientPayload: ClientPayload{TargetWebsite: target},
	}

	resp, err := d.http.R().
		SetContext(ctx).
		SetAuthToken(d.token).
		SetBody(payload).
		Post(d.endpoint)
	if err != nil {
		result.Status = fmt.Sprintf("❌ Dispatch failed for: %s", target)
		d.logger.Error("dispatch request failed", "target", target, "error", err)
		d.writeStatus(ctx, result.Status)
		d.writeError(ctx, "Request Error:", err.Error())
		return
	}

	result.StatusCode = resp.StatusCode()
	if resp.StatusCode() == http.StatusNoContent {
		result.Status = fmt.Sprintf("✅ Process Started for: %s", target)
		d.logger.Info("dispatch accepted", "target", target)
	} else {
		result.Status = fmt.Sprintf("⚠️ Unexpected response (%d) for: %s", resp.StatusCode(), target)
		d.logger.Warn("dispatch returned unexpected status",
			"target", target,
			"status", resp.StatusCode(),
		)
	}

	d.writeStatus(ctx, result.Status)
	d.writeResponse(ctx, "API Response:", resp.String())
}

func (d *Dispatcher) writeStatus(ctx context.Context, status string) {
	if d.status == nil {
		return
	}
	if err := d.status.SetStatus(ctx, status); err != nil {
		d.logger.Warn("failed to write status cell", "error", err)
	}
}

func (d *Dispatcher) writeResponse(ctx context.Context, label, body string) {
	if d.status == nil {
		return
	}
	if err := d.status.SetResponse(ctx, label, body); err != nil {
		d.logger.Warn("failed to write response cells", "error", err)
	}
}

func (d *Dispatcher) writeError(ctx context.Context, label, body string) {
	if d.status == nil {
		return
	}
	if err := d.status.SetError(ctx, label, body); err != nil {
		d.logger.Warn("failed to write error cells", "error", err)
	}
}
