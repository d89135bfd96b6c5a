// Package ollama is a minimal client for the Ollama chat API.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "http://localhost:11434"

// Client sends non-streaming chat requests to an Ollama server.
type Client struct {
	http        *resty.Client
	model       string
	temperature float64
}

// NewClient creates a Client for baseURL. An empty baseURL falls back to the
// local default.
func NewClient(baseURL, model string, temperature float64, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{http: c, model: model, temperature: temperature}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  options   `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Message message `json:"message"`
	Error   string  `json:"error"`
}

// Chat sends one system and one user message and returns the reply text.
func (c *Client) Chat(ctx context.Context, system, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Options: options{Temperature: c.temperature},
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&reqBody).
		SetResult(&out).
		SetError(&out).
		Post("/api/chat")
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode(), out.Error)
	}

	return out.Message.Content, nil
}
