package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxResponseSize limits the completion body read into memory.
const maxResponseSize = 1 << 20

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	endpoint     string
	model        string
	apiKey       string
	temperature  *float64
	systemPrompt string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger
}

var _ Advisor = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

func WithAPIKey(key string) ClientOption {
	return func(client *Client) { client.apiKey = key }
}

func WithModel(model string) ClientOption {
	return func(client *Client) { client.model = model }
}

// WithTemperature sets sampling temperature; unset leaves the endpoint default.
func WithTemperature(t float64) ClientOption {
	return func(client *Client) { client.temperature = &t }
}

// WithSystemPrompt is sent ahead of the history on every request.
func WithSystemPrompt(prompt string) ClientOption {
	return func(client *Client) { client.systemPrompt = prompt }
}

// WithRateLimit caps outgoing requests; rps <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(client *Client) {
		if rps <= 0 {
			client.limiter = nil
			return
		}
		client.limiter = rate.NewLimiter(rate.Limit(rps), max(1, burst))
	}
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// NewClient builds a client for baseURL (e.g. https://api.openai.com/v1).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   buildURL(baseURL),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func buildURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	return baseURL + "/chat/completions"
}

type completionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Advise sends the system prompt and history and returns the first choice.
func (c *Client) Advise(ctx context.Context, history []Message) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	messages := make([]Message, 0, len(history)+1)
	if c.systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: c.systemPrompt})
	}
	messages = append(messages, history...)

	body, err := json.Marshal(completionRequest{Model: c.model, Messages: messages, Temperature: c.temperature})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	requestID := uuid.New().String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read advisor response: %w", err)
	}
	c.logger.Debug("advisor call",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Int("turns", len(history)),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("advisor returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("parse advisor response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("advisor error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyReply
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
