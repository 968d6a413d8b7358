package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tokenbench/tokenbench/pkg/openai"
)

// completionsPath is the one endpoint the benchmark exercises.
const completionsPath = "/v1/chat/completions"

// ClientConfig holds the connection and generation parameters shared by every
// request in a batch.
type ClientConfig struct {
	// BaseURL is the server root (e.g. http://localhost:8000). The
	// chat-completions path is appended.
	BaseURL string

	// APIKey, when non-empty, is sent as a bearer token.
	APIKey string

	// Model is the model identifier to request.
	Model string

	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64

	// Stream selects SSE streaming vs. a single JSON response body.
	Stream bool

	// Timeout bounds the entire request lifecycle, including streamed body
	// consumption. Zero means no timeout.
	Timeout time.Duration

	// Logger is optional; a nil logger discards debug output.
	Logger *slog.Logger
}

// Client issues chat-completion requests against one endpoint. It is safe for
// concurrent use; all per-request state lives on the stack of Send.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string

	maxTokens   int
	temperature float64
	stream      bool

	logger *slog.Logger
}

// NewClient builds a Client from cfg. The per-request timeout is enforced by
// the underlying http.Client and covers headers and body consumption.
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        strings.TrimRight(cfg.BaseURL, "/") + completionsPath,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,

		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		stream:      cfg.Stream,

		logger: logger,
	}
}

// Send performs exactly one POST for the given prompt and returns a fully
// populated Result. Send never returns a Go error: every failure mode —
// transport, non-200 status, mid-stream disconnect — is captured into the
// Result with elapsed time recorded up to the failure point.
func (c *Client) Send(ctx context.Context, prompt string) Result {
	result := Result{Prompt: prompt, Status: StatusOK}

	body, err := json.Marshal(openai.ChatRequest{
		Model:       c.model,
		Messages:    openai.UserMessage(prompt),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      c.stream,
	})
	if err != nil {
		return c.fail(result, time.Now(), err)
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return c.fail(result, start, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(result, start, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		result.Status = StatusError
		result.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		result.TotalTime = time.Since(start)
		return result
	}

	if c.stream {
		stats, err := consumeStream(resp.Body)
		if err != nil {
			return c.fail(result, start, err)
		}

		result.TotalTime = time.Since(start)
		result.PromptTokens = stats.promptTokens()
		result.CompletionTokens = stats.completionTokens()
		if !stats.firstToken.IsZero() {
			result.TTFT = stats.firstToken.Sub(start)
		}
	} else {
		var completion openai.ChatResponse
		if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
			return c.fail(result, start, err)
		}

		result.TotalTime = time.Since(start)
		if completion.Usage != nil {
			result.PromptTokens = completion.Usage.PromptTokens
			result.CompletionTokens = completion.Usage.CompletionTokens
		}
	}

	if result.CompletionTokens > 0 && result.TotalTime > 0 {
		result.TokensPerSecond = float64(result.CompletionTokens) / result.TotalTime.Seconds()
	}

	c.logger.Debug("request finished",
		"status", result.Status,
		"completion_tokens", result.CompletionTokens,
		"total_time", result.TotalTime,
	)

	return result
}

// fail stamps a transport-level failure into the result. The elapsed time up
// to the failure point is still recorded.
func (c *Client) fail(result Result, start time.Time, err error) Result {
	result.Status = StatusError
	result.Error = err.Error()
	result.TotalTime = time.Since(start)

	c.logger.Debug("request failed", "error", err)

	return result
}
