// Package mail is the delivery collaborator for notification emails. The
// pipeline treats it as fire-and-forget: rendering happens upstream and
// failures never propagate.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Message is a fully rendered email ready for delivery.
type Message struct {
	To      []string `json:"to"`
	From    string   `json:"from"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Mailer submits rendered messages for delivery.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// RelayConfig holds configuration for the HTTP mail relay client.
type RelayConfig struct {
	RelayURL string
	APIKey   string
	From     string
}

// RelayClient delivers messages through an HTTP mail relay API.
type RelayClient struct {
	client *resty.Client
	url    string
	from   string
}

// NewRelayClient creates a new mail relay client.
func NewRelayClient(cfg *RelayConfig) *RelayClient {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &RelayClient{
		client: client,
		url:    cfg.RelayURL,
		from:   cfg.From,
	}
}

// Send posts the message to the relay endpoint.
func (c *RelayClient) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = c.from
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("failed to call mail relay: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("mail relay returned HTTP %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

// Noop is a Mailer that discards all messages. Used when mail is disabled.
type Noop struct{}

// Send discards the message.
func (Noop) Send(ctx context.Context, msg Message) error {
	return nil
}
