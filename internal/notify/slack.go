package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
	slackclient "github.com/shubh-37/linkedin-autoposter/internal/slack"
)

type slackSender interface {
	SendMessageWithBlocks(ctx context.Context, channelID, fallback string, blocks []slack.Block) error
}

// SlackNotifier posts run results to a Slack channel.
type SlackNotifier struct {
	client  slackSender
	channel string
}

func NewSlackNotifier(client *slackclient.Client, channel string) *SlackNotifier {
	return &SlackNotifier{client: client, channel: channel}
}

func (n *SlackNotifier) Notify(ctx context.Context, run *models.RunRecord) error {
	title := subject(run)
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, statusEmoji(run)+" "+title, true, false)),
	}

	if text := postText(run); text != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.PlainTextType, truncate(text, 2900), false, false), nil, nil))
	}

	details := fmt.Sprintf("*Run:* `%s`  *Mode:* %s  *State:* %s", run.ID, run.Mode, run.State)
	switch {
	case run.ExternalPostID != "":
		details += fmt.Sprintf("\n*Post:* `%s`", run.ExternalPostID)
	case run.State == models.StateRejected:
		details += fmt.Sprintf("\n*Failed checks:* %s", run.Reason)
	case run.Error != "":
		details += fmt.Sprintf("\n*Error:* %s", run.Error)
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, details, false, false)))

	if err := n.client.SendMessageWithBlocks(ctx, n.channel, title, blocks); err != nil {
		return fmt.Errorf("failed to send Slack notification: %w", err)
	}
	return nil
}

func statusEmoji(run *models.RunRecord) string {
	switch status(run) {
	case "success":
		return "✅"
	case "rejected":
		return "🚫"
	case "dry_run":
		return "🧪"
	default:
		return "❌"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
