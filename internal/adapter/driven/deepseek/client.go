// Package deepseek implements the Enhancer port against the DeepSeek
// chat-completion API.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
	"github.com/ericfisherdev/textenhance/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Enhancer = (*Client)(nil)

const (
	// DefaultBaseURL is the production API root; requests go to {base}/chat/completions.
	DefaultBaseURL = "https://api.deepseek.com/v1"

	// Model, Temperature and MaxTokens are fixed request policy.
	Model       = "deepseek-chat"
	Temperature = 0.7
	MaxTokens   = 1000

	// MaxAttempts bounds the total number of requests per Enhance call.
	MaxAttempts = 3

	defaultTimeout  = 60 * time.Second
	maxResponseBody = 10 * 1024 * 1024
	maxErrorBody    = 64 * 1024
)

// Client implements driven.Enhancer over HTTP.
type Client struct {
	http        *http.Client
	baseURL     string
	maxAttempts int
	logger      *slog.Logger
	timer       backoff.Timer // nil uses the library's real timer.
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL points the client at a different API root (proxies, tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTimeout sets the overall per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMaxAttempts overrides MaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n >= 1 {
			c.maxAttempts = n
		}
	}
}

// WithLogger sets the logger used for request and retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client with production defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: defaultTimeout},
		baseURL:     DefaultBaseURL,
		maxAttempts: MaxAttempts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Enhance sends req to the completion endpoint and returns the trimmed
// response text. Rate-limited and transport failures are retried; every
// other failure is returned immediately as a *model.EnhanceError.
func (c *Client) Enhance(ctx context.Context, req model.EnhancementRequest, secret string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       Model,
		Messages:    []chatMessage{{Role: "user", Content: BuildPrompt(req)}},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	policy := newRetryPolicy()
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxAttempts-1)), ctx)

	var (
		result  string
		attempt int
	)
	op := func() error {
		attempt++
		text, retryAfter, err := c.do(ctx, body, secret)
		if err == nil {
			result = text
			return nil
		}

		switch model.KindOf(err) {
		case model.ErrorRateLimited:
			if retryAfter > maxRetryAfter {
				return backoff.Permanent(err)
			}
			if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < retryAfter {
				return backoff.Permanent(err)
			}
			policy.after(retryAfter)
			return err
		case model.ErrorNetwork:
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			policy.exponential()
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("deepseek request failed, retrying",
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"wait", wait,
			"error", err,
		)
	}

	if err := backoff.RetryNotifyWithTimer(op, b, notify, c.timer); err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return "", model.NewEnhanceError(model.ErrorNetwork, "request cancelled", err)
		}
		return "", err
	}
	return result, nil
}

// do performs one attempt. For 429 responses it also returns the server's
// requested wait.
func (c *Client) do(ctx context.Context, body []byte, secret string) (string, time.Duration, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+secret)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", 0, model.NewEnhanceError(model.ErrorNetwork, err.Error(), err)
	}
	defer resp.Body.Close()

	c.logger.Debug("deepseek api call",
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := mapHTTPError(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()), apiErr
		}
		return "", 0, apiErr
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", 0, model.NewEnhanceError(model.ErrorNetwork, "read response: "+err.Error(), err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", 0, model.NewEnhanceError(model.ErrorMalformedResponse, "Invalid API response format", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil || *parsed.Choices[0].Message.Content == "" {
		return "", 0, model.NewEnhanceError(model.ErrorMalformedResponse, "Invalid API response format", nil)
	}

	return strings.TrimSpace(*parsed.Choices[0].Message.Content), 0, nil
}

// mapHTTPError classifies a non-2xx response. The message is the provider's
// error.message when the body carries one.
func mapHTTPError(status int, body []byte) *model.EnhanceError {
	message := fmt.Sprintf("API request failed with status %d", status)
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}

	var kind model.ErrorKind
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = model.ErrorAuth
	case status == http.StatusTooManyRequests:
		kind = model.ErrorRateLimited
	case status >= 500:
		kind = model.ErrorServer
	default:
		kind = model.ErrorRequest
	}

	return &model.EnhanceError{Kind: kind, Message: message, Status: status}
}
