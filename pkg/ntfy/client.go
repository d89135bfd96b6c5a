// Package ntfy publishes push notifications to an ntfy topic.
package ntfy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultServer = "https://ntfy.sh"

// Client posts messages to one topic.
type Client struct {
	http  *resty.Client
	topic string
}

func NewClient(server, topic string, timeout time.Duration) (*Client, error) {
	if topic == "" {
		return nil, errors.New("ntfy topic is required")
	}
	if server == "" {
		server = DefaultServer
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(server, "/")).
		SetTimeout(timeout)

	return &Client{http: c, topic: topic}, nil
}

// Send publishes body under title. A non-empty link becomes both the click
// target and an "Open" action button.
func (c *Client) Send(ctx context.Context, title, body, link string) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Title", title).
		SetHeader("Priority", "high").
		SetHeader("Tags", "clipboard").
		SetBody(body)

	if link != "" {
		req.SetHeader("Click", link).
			SetHeader("Actions", "view, Open, "+link)
	}

	resp, err := req.Post("/" + c.topic)
	if err != nil {
		return fmt.Errorf("ntfy request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ntfy status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
