// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dizid/shipkit/pkg/logging"
	"github.com/dizid/shipkit/pkg/retry"
	"github.com/dizid/shipkit/pkg/tasks"
)

// ============================================================================
// SECTION 1: CONFIGURATION
// ============================================================================

const (
	// DefaultTimeout bounds a single generation attempt. It is longer
	// than the gateway's upstream timeout so the gateway's 504 arrives
	// before the client gives up on its own.
	DefaultTimeout = 90 * time.Second

	generatePath = "/v1/generate"
)

// TokenSource supplies the bearer token per request. A nil source or an
// empty token sends the request anonymously.
type TokenSource func() string

// Config configures the generation client.
type Config struct {
	// BaseURL of the generation gateway, e.g. "http://localhost:8080".
	BaseURL string
	// Token supplies the user's bearer token. Optional.
	Token TokenSource
	// HTTPClient overrides the transport. Optional.
	HTTPClient *http.Client
	// Timeout per attempt. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Retry policy. Zero value means retry.DefaultOptions().
	Retry retry.Options
	// Logger for parse-fallback and retry diagnostics. Optional.
	Logger *logging.Logger
}

// Client runs task prompts through the generation gateway.
//
// # Thread Safety
// Safe for concurrent use.
type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
	timeout    time.Duration
	retryOpts  retry.Options
	logger     *logging.Logger
}

// NewClient validates the config and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("aigen: BaseURL is required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		retryOpts:  cfg.Retry,
		logger:     cfg.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.retryOpts.MaxRetries == 0 && c.retryOpts.BaseBackoff == 0 {
		c.retryOpts = retry.DefaultOptions()
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c, nil
}

// ============================================================================
// SECTION 2: WIRE TYPES
// ============================================================================

type generateRequest struct {
	TaskID      string    `json:"taskId,omitempty"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generateResponse struct {
	Model   string         `json:"model"`
	Content []contentBlock `json:"content"`
	Usage   *usageBlock    `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usageBlock struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type errorBody struct {
	Error string      `json:"error"`
	Quota *QuotaState `json:"quota"`
}

// Result is one completed generation. Output is never persisted by the
// client; the caller decides what to keep.
type Result struct {
	TaskID string
	// Raw is the text block exactly as the model produced it.
	Raw string
	// Parsed is the task parser's output, or Raw when the task has no
	// parser or the parser failed.
	Parsed any
	Model  string
	// Token counts from the upstream response; zero when absent.
	InputTokens  int
	OutputTokens int
}

// ============================================================================
// SECTION 3: GENERATION
// ============================================================================

// Generate builds the task's prompt from formData and projectCtx and
// runs it through the gateway.
//
// # Description
// Checklist-only tasks (no AI config) fail immediately with
// ErrNoAIConfig. Transport and 5xx failures are retried per the
// configured policy; 4xx responses and context cancellation are not.
// A response without a non-empty text block is an
// UpstreamResponseError. A failing task parser is logged and the raw
// text is returned instead; parser failure is never a generation
// failure.
func (c *Client) Generate(ctx context.Context, task tasks.Task, formData map[string]any, projectCtx map[string]string) (*Result, error) {
	if task.AI == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAIConfig, task.ID)
	}

	prompt := BuildPrompt(task.AI.PromptTemplate, formData, projectCtx, task.AI.ContextProvider)

	reqBody := generateRequest{
		TaskID:      task.ID,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: task.AI.Temperature,
		MaxTokens:   task.AI.MaxTokens,
	}

	resp, err := retry.WithRetry(ctx, func(ctx context.Context) (*generateResponse, error) {
		return c.post(ctx, reqBody)
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	raw, ok := firstTextBlock(resp)
	if !ok {
		return nil, &UpstreamResponseError{Reason: "no text content block"}
	}

	result := &Result{
		TaskID: task.ID,
		Raw:    raw,
		Parsed: raw,
		Model:  resp.Model,
	}
	if resp.Usage != nil {
		result.InputTokens = resp.Usage.InputTokens
		result.OutputTokens = resp.Usage.OutputTokens
	}

	if task.AI.ParseResponse != nil {
		parsed, perr := safeParse(task.AI.ParseResponse, raw)
		if perr != nil {
			c.logger.Warn("response parser failed, falling back to raw text",
				"task_id", task.ID, "error", perr)
		} else {
			result.Parsed = parsed
		}
	}

	return result, nil
}

// post performs one attempt against the gateway with the per-attempt
// timeout applied.
func (c *Client) post(ctx context.Context, body generateRequest) (*generateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiErrorFrom(resp.StatusCode, raw)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &UpstreamResponseError{Reason: "malformed response body"}
	}
	return &out, nil
}

func apiErrorFrom(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Error
		if status == http.StatusTooManyRequests && body.Quota != nil {
			apiErr.Quota = body.Quota
		}
	}
	return apiErr
}

func firstTextBlock(resp *generateResponse) (string, bool) {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, true
		}
	}
	return "", false
}

// safeParse isolates task parsers; a panicking parser is reported as an
// error, not propagated.
func safeParse(parse tasks.ResponseParser, raw string) (parsed any, err error) {
	defer func() {
		if r := recover(); r != nil {
			parsed, err = nil, fmt.Errorf("parser panic: %v", r)
		}
	}()
	return parse(raw)
}
