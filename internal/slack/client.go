package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type Client struct {
	api   *slack.Client
	botID string
}

// NewClient authenticates the bot token before returning, so a bad token
// fails at startup instead of on the first notification.
func NewClient(ctx context.Context, token string, opts ...slack.Option) (*Client, error) {
	api := slack.New(token, opts...)

	authTest, err := api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Slack: %w", err)
	}

	return &Client{
		api:   api,
		botID: authTest.UserID,
	}, nil
}

func (c *Client) GetBotID() string {
	return c.botID
}

// SendMessageWithBlocks posts blocks with fallback text for notifications.
func (c *Client) SendMessageWithBlocks(ctx context.Context, channelID, fallback string, blocks []slack.Block) error {
	_, _, err := c.api.PostMessageContext(ctx,
		channelID,
		slack.MsgOptionText(fallback, false),
		slack.MsgOptionBlocks(blocks...),
	)
	return err
}
