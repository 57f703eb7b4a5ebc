// Package upstream implements the gateway's Anthropic Messages API
// client.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dizid/shipkit/pkg/logging"
	"github.com/dizid/shipkit/services/gateway/datatypes"
)

const (
	anthropicAPIVersion = "2023-06-01"

	// DefaultBaseURL is the Anthropic Messages endpoint.
	DefaultBaseURL = "https://api.anthropic.com/v1/messages"

	// DefaultModel is the model every generation runs on. Clients do
	// not get to pick; model choice is a server-side decision.
	DefaultModel = "claude-sonnet-4-6"

	// DefaultTimeout bounds one upstream call. Kept under the
	// generation client's own deadline so the caller sees a clean 504
	// instead of a dropped connection.
	DefaultTimeout = 60 * time.Second
)

// --- Error taxonomy ---

// TimeoutError means the upstream call exceeded its deadline. Maps to
// 504 at the handler.
type TimeoutError struct{}

func (e *TimeoutError) Error() string { return "upstream request timed out" }

// ConnectionError means the upstream call failed before a response
// arrived. Maps to 502.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "upstream connection failed: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

// StatusError is a non-200 upstream response. Maps to 502; the
// upstream body is logged, never forwarded.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// ShapeError is a 200 upstream response without a usable text block.
// Maps to 502.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string { return "upstream response invalid: " + e.Reason }

// --- Wire types ---

type anthropicRequest struct {
	Model       string              `json:"model"`
	Messages    []datatypes.Message `json:"messages"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature *float64            `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Content []anthropicContent `json:"content"`
	Usage   *anthropicUsage    `json:"usage"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// --- Client ---

// Config configures the upstream client.
type Config struct {
	// APIKey is required. A gateway without a key cannot serve
	// generations, so this fails at construction, not first request.
	APIKey string
	// Model overrides DefaultModel. Optional.
	Model string
	// BaseURL overrides DefaultBaseURL (tests). Optional.
	BaseURL string
	// Timeout overrides DefaultTimeout. Optional.
	Timeout time.Duration
	// HTTPClient overrides the transport. Optional.
	HTTPClient *http.Client
	// Logger for raw-response diagnostics. Optional.
	Logger *logging.Logger
}

// Request is one generation to run upstream. Parameters arrive already
// clamped by the handler.
type Request struct {
	Messages    []datatypes.Message
	Temperature float64
	MaxTokens   int
}

// Response is a validated upstream result.
type Response struct {
	// Raw is the upstream body verbatim; the gateway passes it through
	// to the caller untouched.
	Raw []byte
	// Text is the concatenated text blocks, guaranteed non-empty.
	Text  string
	Model string
	// Usage from the upstream body; HasUsage is false when absent and
	// accounting must fall back to estimation.
	InputTokens  int
	OutputTokens int
	HasUsage     bool
}

// Client calls the Anthropic Messages API.
//
// # Thread Safety
// Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	timeout    time.Duration
	logger     *logging.Logger
}

// NewClient validates the config and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("upstream: APIKey is missing")
	}
	c := &Client{
		httpClient: cfg.HTTPClient,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c, nil
}

// Model reports the model the client sends upstream.
func (c *Client) Model() string { return c.model }

// Send runs one generation upstream and validates the response shape.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	temp := req.Temperature
	payload := anthropicRequest{
		Model:       c.model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: &temp,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)
	httpReq.Header.Set("content-type", "application/json")

	c.logger.Debug("sending request to Anthropic", "model", c.model, "max_tokens", req.MaxTokens)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, &TimeoutError{}
		}
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("upstream returned non-200",
			"status", resp.StatusCode, "body_length", len(raw))
		return nil, &StatusError{Status: resp.StatusCode, Body: string(raw)}
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, &ShapeError{Reason: "body is not valid JSON"}
	}
	if apiResp.Error != nil {
		return nil, &ShapeError{Reason: apiResp.Error.Type + ": " + apiResp.Error.Message}
	}
	if len(apiResp.Content) == 0 {
		return nil, &ShapeError{Reason: "empty content array"}
	}

	text := ""
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, &ShapeError{Reason: "no text block in content"}
	}

	out := &Response{
		Raw:   raw,
		Text:  text,
		Model: apiResp.Model,
	}
	if apiResp.Usage != nil {
		out.InputTokens = apiResp.Usage.InputTokens
		out.OutputTokens = apiResp.Usage.OutputTokens
		out.HasUsage = true
	}
	return out, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
