// Package telegram provides a simple client for sending notifications via Telegram.
//
// The client is bound to one bot token and one chat, and is used as a
// delivery channel for check-in reminders.
package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const apiURL = "https://api.telegram.org"

// Client represents a Telegram client used to send notifications.
type Client struct {
	http   *resty.Client // HTTP client bound to the Bot API
	token  string        // bot token for authentication
	chatID string        // chat the reminders go to
}

// NewClient creates a new Telegram Client instance with the given bot token and chat.
func NewClient(token, chatID string) *Client {
	return newClient(apiURL, token, chatID)
}

func newClient(baseURL, token, chatID string) *Client {
	return &Client{
		http:   resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
		token:  token,
		chatID: chatID,
	}
}

// sendMessageRequest represents the payload for the Telegram sendMessage API.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"` // chat id to send message to
	Text   string `json:"text"`    // message text
}

// Send posts title, body and link as one message to the configured chat.
//
// It returns an error if the request fails or the API responds with a non-2xx status.
func (c *Client) Send(ctx context.Context, title, body, link string) error {
	text := fmt.Sprintf("%s\n%s", title, body)
	if link != "" {
		text += "\n" + link
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{ChatID: c.chatID, Text: text}).
		Post(fmt.Sprintf("/bot%s/sendMessage", c.token))
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("telegram API error: %s", resp.Status())
	}

	return nil
}
