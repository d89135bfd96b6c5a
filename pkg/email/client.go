package email

import (
	"context"
	"fmt"

	"gopkg.in/mail.v2"
)

// Client sends plain-text mail to a single configured recipient.
type Client struct {
	smtpHost string
	smtpPort int
	username string
	password string
	from     string
	to       string
}

func NewClient(smtpHost string, smtpPort int, username, password, from, to string) *Client {
	return &Client{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		username: username,
		password: password,
		from:     from,
		to:       to,
	}
}

func (c *Client) message(title, body, link string) *mail.Message {
	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", c.to)
	message.SetHeader("Subject", title)

	text := body
	if link != "" {
		text = fmt.Sprintf("%s\n\n%s", body, link)
	}
	message.SetBody("text/plain", text)

	return message
}

// Send delivers one message. The SMTP dialer has no context support, so ctx
// is only checked before dialing.
func (c *Client) Send(ctx context.Context, title, body, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dialer := mail.NewDialer(c.smtpHost, c.smtpPort, c.username, c.password)

	return dialer.DialAndSend(c.message(title, body, link))
}
