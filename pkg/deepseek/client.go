// Package deepseek adapts the DeepSeek chat completions API to a single
// system/user exchange.
package deepseek

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"
)

const DefaultModel = "deepseek-chat"

var ErrEmptyReply = errors.New("deepseek returned no choices")

type Client struct {
	client      deepseek.Client
	model       string
	temperature float64
	maxTokens   int
}

func NewClient(apiKey, model string, temperature float64) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("deepseek api key is required")
	}

	client, err := deepseek.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create deepseek client: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}

	return &Client{client: client, model: model, temperature: temperature, maxTokens: 1024}, nil
}

func (c *Client) buildRequest(system, prompt string) *request.ChatCompletionsRequest {
	var temp *float32
	if c.temperature > 0 {
		t := float32(c.temperature)
		temp = &t
	}

	return &request.ChatCompletionsRequest{
		Model: c.model,
		Messages: []*request.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: temp,
		Stream:      false,
	}
}

// Chat returns the content of the first choice.
func (c *Client) Chat(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.CallChatCompletionsChat(ctx, c.buildRequest(system, prompt))
	if err != nil {
		return "", fmt.Errorf("deepseek request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	return resp.Choices[0].Message.Content, nil
}
